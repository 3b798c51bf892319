package store

import (
	"context"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
)

// Security is the read-only security posture report.
type Security struct {
	// Available reports that storage accepts writes at all.
	Available bool `json:"available"`

	// Transport reports that the embedder declared the surrounding
	// transport secure.
	Transport bool `json:"https"`

	// Encrypted reports that a real, non-fallback key is active.
	Encrypted bool `json:"encrypted"`

	// Secure is the conjunction of Transport and Encrypted.
	Secure bool `json:"secure"`
}

// BackendInfo describes one backend's namespaced usage.
type BackendInfo struct {
	// Items is the number of namespaced records.
	Items int `json:"items"`

	// Used is the approximate combined byte size of keys and blobs.
	Used int64 `json:"used"`
}

// StorageInfo describes both backends.
type StorageInfo struct {
	Persistent BackendInfo `json:"persistent"`
	Session    BackendInfo `json:"session"`
}

// probeSuffix names the throwaway key used by the availability probe.
const probeSuffix = "__probe"

// IsSecure reports the subsystem's security posture. Read-only apart
// from a throwaway probe record.
func (s *Store) IsSecure(ctx context.Context) Security {
	sec := Security{
		Transport: s.cfg.TransportSecure,
	}

	probeKey := s.cfg.Namespace + probeSuffix
	if err := s.persistent.Set(ctx, probeKey, "1"); err == nil {
		sec.Available = true
		s.deleteQuiet(ctx, s.persistent, probeKey)
	}

	sec.Encrypted = !s.initKey(ctx).Fallback()
	sec.Secure = sec.Transport && sec.Encrypted
	return sec
}

// Info reports per-backend record counts and approximate usage for
// the subsystem's namespace, and refreshes the backend gauges.
func (s *Store) Info(ctx context.Context) StorageInfo {
	var info StorageInfo

	if stats, err := s.persistent.Stats(ctx, s.cfg.Namespace); err == nil {
		info.Persistent = BackendInfo{Items: stats.Items, Used: stats.UsedBytes}
	} else {
		s.logger.Warn("persistent stats failed", "error", err)
	}
	if stats, err := s.session.Stats(ctx, s.cfg.Namespace); err == nil {
		info.Session = BackendInfo{Items: stats.Items, Used: stats.UsedBytes}
	} else {
		s.logger.Warn("session stats failed", "error", err)
	}

	s.metrics.BackendItems.WithLabelValues(domain.BackendPersistent.String()).Set(float64(info.Persistent.Items))
	s.metrics.BackendBytes.WithLabelValues(domain.BackendPersistent.String()).Set(float64(info.Persistent.Used))
	s.metrics.BackendItems.WithLabelValues(domain.BackendSession.String()).Set(float64(info.Session.Items))
	s.metrics.BackendBytes.WithLabelValues(domain.BackendSession.String()).Set(float64(info.Session.Used))

	return info
}
