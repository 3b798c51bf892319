// Package store is the public facade of the secure storage subsystem.
package store

import (
	"context"
	"time"

	"github.com/bdc-labs/securestore-go/internal/codec"
	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/keyring"
	"github.com/bdc-labs/securestore-go/internal/storage"
)

// reserved key suffixes holding subsystem bookkeeping rather than
// records; the reaper must leave them alone.
var reservedSuffixes = []string{
	domain.KeyMaterialSuffix,
	keyring.SaltSuffix,
}

// Sweep scans both backends and deletes every namespaced record whose
// expiry has passed. Records that cannot be decoded are deleted too,
// so storage self-heals over time. Returns the number of removals.
func (s *Store) Sweep(ctx context.Context) int {
	removed := 0
	removed += s.sweepBackend(ctx, s.persistent, domain.BackendPersistent)
	removed += s.sweepBackend(ctx, s.session, domain.BackendSession)
	return removed
}

func (s *Store) sweepBackend(ctx context.Context, backend storage.Backend, b domain.Backend) int {
	keys, err := backend.Keys(ctx, s.cfg.Namespace)
	if err != nil {
		s.logger.Error("sweep scan failed", "backend", b.String(), "error", err)
		return 0
	}

	removed := 0
	for _, storageKey := range keys {
		if s.isReserved(storageKey) {
			continue
		}

		blob, ok, err := backend.Get(ctx, storageKey)
		if err != nil || !ok {
			continue
		}

		if s.shouldReap(ctx, storageKey, blob) {
			s.deleteQuiet(ctx, backend, storageKey)
			s.metrics.ExpiredReaped.Inc()
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug("sweep removed records", "backend", b.String(), "removed", removed)
	}
	return removed
}

// shouldReap decides whether a stored blob is expired or beyond repair.
func (s *Store) shouldReap(ctx context.Context, storageKey, blob string) bool {
	data, _, err := codec.Decode(blob, s.initKey(ctx), []byte(storageKey))
	if err != nil {
		return true
	}
	record, err := domain.UnmarshalRecord(data)
	if err != nil {
		return true
	}
	return record.IsExpired()
}

// isReserved matches the exact bookkeeping keys, never user records
// whose logical key merely ends in a reserved suffix.
func (s *Store) isReserved(storageKey string) bool {
	for _, suffix := range reservedSuffixes {
		if storageKey == s.cfg.Namespace+suffix {
			return true
		}
	}
	return false
}

// sweepLoop runs periodic sweeps until Close.
func (s *Store) sweepLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if removed := s.Sweep(ctx); removed > 0 {
				s.logger.Info("periodic sweep complete", "removed", removed)
			}
			cancel()
		case <-s.stopCh:
			return
		}
	}
}
