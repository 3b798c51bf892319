// Package badgerkv implements the default persistent backend on
// Badger v3.
package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/storage"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
)

// Config tunes the Badger engine.
type Config struct {
	// Dir is the storage directory.
	Dir string

	// SyncWrites enables fsync after each write.
	SyncWrites bool

	// CacheSize is the block cache size in bytes.
	CacheSize int64

	// GCInterval is the interval between value-log GC runs.
	GCInterval time.Duration

	// GCThreshold is the GC discard ratio (0.0-1.0).
	GCThreshold float64
}

// DefaultConfig returns the default Badger configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		SyncWrites:  false,
		CacheSize:   16 << 20, // 16MB; record blobs are small
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
	}
}

// Engine is a Badger-backed persistent backend.
type Engine struct {
	db     *badger.DB
	cfg    Config
	logger logger.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// Open opens the Badger database and starts the GC loop.
func Open(cfg Config, log logger.Logger) (*Engine, error) {
	if cfg.Dir == "" {
		return nil, domain.ErrStorageUnavailable.WithDetails("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: log}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}

	e := &Engine{
		db:     db,
		cfg:    cfg,
		logger: log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go e.gcLoop()

	log.Info("badger backend opened", "dir", cfg.Dir, "gc_interval", cfg.GCInterval)
	return e, nil
}

// Set stores a blob under key.
func (e *Engine) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

// Get retrieves the blob stored under key.
func (e *Engine) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, domain.ErrStorageUnavailable.WithCause(err)
	}
	return string(value), true, nil
}

// Delete removes a key.
func (e *Engine) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

// Keys lists all keys with the given prefix.
func (e *Engine) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := e.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix: []byte(prefix),
		})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	return keys, nil
}

// Clear removes every key with the given prefix.
func (e *Engine) Clear(ctx context.Context, prefix string) error {
	keys, err := e.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := e.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports usage for keys with the given prefix.
func (e *Engine) Stats(ctx context.Context, prefix string) (storage.Stats, error) {
	if err := ctx.Err(); err != nil {
		return storage.Stats{}, err
	}
	var stats storage.Stats
	err := e.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix: []byte(prefix),
		})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			stats.Items++
			stats.UsedBytes += int64(len(item.Key())) + item.ValueSize()
		}
		return nil
	})
	if err != nil {
		return storage.Stats{}, domain.ErrStorageUnavailable.WithCause(err)
	}
	return stats, nil
}

// gcLoop runs periodic value-log garbage collection.
func (e *Engine) gcLoop() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Badger returns ErrNoRewrite when there is nothing to do.
			if err := e.db.RunValueLogGC(e.cfg.GCThreshold); err != nil &&
				!errors.Is(err, badger.ErrNoRewrite) {
				e.logger.Warn("badger gc failed", "error", err)
			}
		case <-e.stopCh:
			return
		}
	}
}

// Close stops the GC loop and closes the database.
func (e *Engine) Close() error {
	close(e.stopCh)
	<-e.doneCh
	if err := e.db.Close(); err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

// badgerLogger adapts the SecureStore logger to badger.Logger.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error("badger: " + fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn("badger: " + fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug("badger: " + fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug("badger: " + fmt.Sprintf(format, args...))
}
