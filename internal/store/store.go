package store

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/bdc-labs/securestore-go/internal/codec"
	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/integrity"
	"github.com/bdc-labs/securestore-go/internal/keyring"
	"github.com/bdc-labs/securestore-go/internal/storage"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
	"github.com/bdc-labs/securestore-go/internal/telemetry/metric"
)

// DefaultSweepInterval is how often the reaper runs when not configured.
const DefaultSweepInterval = 5 * time.Minute

// Config configures the store.
type Config struct {
	// Namespace is the key prefix separating this subsystem's records
	// from unrelated keys. Defaults to domain.DefaultNamespace.
	Namespace string

	// SweepInterval is the reaper period. Zero uses the default;
	// negative disables the background sweep entirely.
	SweepInterval time.Duration

	// TransportSecure is the embedder's statement that the surrounding
	// transport is secure; it feeds diagnostics only.
	TransportSecure bool
}

// Store is the secure item store.
type Store struct {
	cfg        Config
	persistent storage.Backend
	session    storage.Backend
	keys       *keyring.Manager
	logger     logger.Logger
	metrics    *metric.Metrics

	keyOnce sync.Once
	key     keyring.Key

	stopCh chan struct{}
	doneCh chan struct{}
	runMu  sync.Mutex
	runs   bool
}

// New creates a store over the two backends. Call Start to run the
// initial sweep and the background reaper.
func New(cfg Config, persistent, session storage.Backend, keys *keyring.Manager, log logger.Logger, m *metric.Metrics) *Store {
	if cfg.Namespace == "" {
		cfg.Namespace = domain.DefaultNamespace
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if log == nil {
		log = logger.Default()
	}
	if m == nil {
		m = metric.Nop()
	}
	return &Store{
		cfg:        cfg,
		persistent: persistent,
		session:    session,
		keys:       keys,
		logger:     log,
		metrics:    m,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Namespace returns the configured key prefix.
func (s *Store) Namespace() string { return s.cfg.Namespace }

// initKey resolves the encryption key once per store lifetime.
func (s *Store) initKey(ctx context.Context) keyring.Key {
	s.keyOnce.Do(func() {
		s.key = s.keys.Initialize(ctx)
		if s.key.Fallback() {
			s.metrics.Failures.WithLabelValues(metric.FailureKeyInit).Inc()
		}
	})
	return s.key
}

// Start runs the initial sweep and launches the background reaper.
func (s *Store) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.runs {
		return
	}
	s.runs = true

	removed := s.Sweep(ctx)
	if removed > 0 {
		s.logger.Info("initial sweep complete", "removed", removed)
	}

	if s.cfg.SweepInterval < 0 {
		close(s.doneCh)
		return
	}
	go s.sweepLoop()
}

// storageKey namespaces a logical key.
func (s *Store) storageKey(key string) string {
	return s.cfg.Namespace + key
}

// SetItem stores a value under key.
//
// It never fails loudly: the result reports success, and failures are
// logged and counted.
func (s *Store) SetItem(ctx context.Context, key string, value any, opts domain.Options) bool {
	record := domain.NewRecord(value, opts.TTL, opts.Sensitive)

	if opts.CheckIntegrity() {
		digest, err := integrity.Digest(value)
		if err != nil {
			s.logger.Error("value not serializable", "key", key, "error", err)
			return false
		}
		record.Checksum = digest
	}

	data, err := record.Marshal()
	if err != nil {
		s.logger.Error("record serialization failed", "key", key, "error", err)
		return false
	}

	encKey := keyring.FallbackKey
	if opts.Encrypt() {
		encKey = s.initKey(ctx)
	}

	storageKey := s.storageKey(key)
	blob, err := codec.Encode(data, encKey, []byte(storageKey))
	if err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureEncrypt).Inc()
		s.logger.Error("encode failed", "key", key, "error", err)
		return false
	}

	backend := s.backendFor(record.Backend())
	if err := backend.Set(ctx, storageKey, blob); err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureStorage).Inc()
		s.logger.Error("backend write failed",
			"key", key, "backend", record.Backend().String(), "error", err)
		return false
	}

	s.metrics.ItemsWritten.Inc()
	return true
}

// GetItem retrieves the value stored under key, or nil.
//
// The persistent backend is checked before the session backend because
// sensitivity may have changed between writes. A record that fails
// decoding, expiry, or integrity verification is deleted as a side
// effect and treated as absent.
func (s *Store) GetItem(ctx context.Context, key string, opts domain.Options) any {
	storageKey := s.storageKey(key)

	for _, b := range []domain.Backend{domain.BackendPersistent, domain.BackendSession} {
		backend := s.backendFor(b)

		blob, ok, err := backend.Get(ctx, storageKey)
		if err != nil {
			s.metrics.Failures.WithLabelValues(metric.FailureStorage).Inc()
			s.logger.Error("backend read failed",
				"key", key, "backend", b.String(), "error", err)
			continue
		}
		if !ok {
			continue
		}

		value, ok := s.decodeAndVerify(ctx, backend, b, storageKey, key, blob, opts)
		if !ok {
			continue
		}
		s.metrics.ItemsRead.Inc()
		return value
	}

	s.metrics.ReadMisses.Inc()
	return nil
}

// decodeAndVerify runs the read-side pipeline for one backend hit.
// Any failure deletes the record and reports absence.
func (s *Store) decodeAndVerify(ctx context.Context, backend storage.Backend, b domain.Backend, storageKey, key, blob string, opts domain.Options) (any, bool) {
	encKey := keyring.FallbackKey
	if opts.Encrypt() {
		encKey = s.initKey(ctx)
	}

	data, fellBack, err := codec.Decode(blob, encKey, []byte(storageKey))
	if err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureDecrypt).Inc()
		s.logger.Warn("undecodable record deleted",
			"key", key, "backend", b.String(), "error", err)
		s.deleteQuiet(ctx, backend, storageKey)
		return nil, false
	}
	if fellBack {
		s.metrics.Failures.WithLabelValues(metric.FailureDecryptFallback).Inc()
	}

	record, err := domain.UnmarshalRecord(data)
	if err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureDecrypt).Inc()
		s.logger.Warn("unparseable record deleted",
			"key", key, "backend", b.String(), "error", err)
		s.deleteQuiet(ctx, backend, storageKey)
		return nil, false
	}

	if record.IsExpired() {
		s.deleteQuiet(ctx, backend, storageKey)
		return nil, false
	}

	if opts.CheckIntegrity() && record.Checksum != "" {
		if !integrity.Verify(record.Value, record.Checksum) {
			s.metrics.Failures.WithLabelValues(metric.FailureIntegrity).Inc()
			s.logger.Warn("integrity verification failed, record deleted",
				"key", key, "backend", b.String(),
				"error", domain.ErrIntegrityFailure)
			s.deleteQuiet(ctx, backend, storageKey)
			return nil, false
		}
	}

	return record.Value, true
}

// RemoveItem deletes the key from both backends. Idempotent.
func (s *Store) RemoveItem(ctx context.Context, key string) {
	storageKey := s.storageKey(key)
	s.deleteQuiet(ctx, s.persistent, storageKey)
	s.deleteQuiet(ctx, s.session, storageKey)
}

// Clear deletes every namespaced record from both backends, leaving
// unrelated keys untouched.
func (s *Store) Clear(ctx context.Context) {
	if err := s.persistent.Clear(ctx, s.cfg.Namespace); err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureStorage).Inc()
		s.logger.Error("persistent clear failed", "error", err)
	}
	if err := s.session.Clear(ctx, s.cfg.Namespace); err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureStorage).Inc()
		s.logger.Error("session clear failed", "error", err)
	}
}

// ClearSession wipes the session namespace. Used by the security
// monitor on unload.
func (s *Store) ClearSession(ctx context.Context) {
	if err := s.session.Clear(ctx, s.cfg.Namespace); err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureStorage).Inc()
		s.logger.Error("session clear failed", "error", err)
	}
}

// RemoveSessionMatching deletes session records whose logical key
// matches the pattern. Used by the security monitor when the
// application reports loss of visibility.
func (s *Store) RemoveSessionMatching(ctx context.Context, pattern *regexp.Regexp) int {
	keys, err := s.session.Keys(ctx, s.cfg.Namespace)
	if err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureStorage).Inc()
		s.logger.Error("session scan failed", "error", err)
		return 0
	}

	removed := 0
	for _, storageKey := range keys {
		logical := storageKey[len(s.cfg.Namespace):]
		if !pattern.MatchString(logical) {
			continue
		}
		s.deleteQuiet(ctx, s.session, storageKey)
		removed++
	}
	return removed
}

func (s *Store) backendFor(b domain.Backend) storage.Backend {
	if b == domain.BackendSession {
		return s.session
	}
	return s.persistent
}

func (s *Store) deleteQuiet(ctx context.Context, backend storage.Backend, storageKey string) {
	if err := backend.Delete(ctx, storageKey); err != nil {
		s.metrics.Failures.WithLabelValues(metric.FailureStorage).Inc()
		s.logger.Error("backend delete failed", "storage_key", storageKey, "error", err)
	}
}

// Close stops the background reaper. Backends are owned by the
// composition root and closed there.
func (s *Store) Close() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if !s.runs {
		return
	}
	s.runs = false
	close(s.stopCh)
	<-s.doneCh
}
