// Package memkv implements the session-scoped storage backend.
package memkv

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/storage"
	"github.com/bdc-labs/securestore-go/pkg/cmap"
)

// Store is an in-memory session backend.
type Store struct {
	items  *cmap.Map[string]
	closed atomic.Bool
}

// New creates an empty session backend.
func New() *Store {
	return &Store{items: cmap.New[string]()}
}

// Set stores a blob under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	if s.closed.Load() {
		return domain.ErrStorageClosed
	}
	s.items.Set(key, value)
	return nil
}

// Get retrieves the blob stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, domain.ErrStorageClosed
	}
	v, ok := s.items.Get(key)
	return v, ok, nil
}

// Delete removes a key.
func (s *Store) Delete(_ context.Context, key string) error {
	if s.closed.Load() {
		return domain.ErrStorageClosed
	}
	s.items.Delete(key)
	return nil
}

// Keys lists all keys with the given prefix.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	if s.closed.Load() {
		return nil, domain.ErrStorageClosed
	}
	var keys []string
	s.items.Range(func(key string, _ string) bool {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return true
	})
	return keys, nil
}

// Clear removes every key with the given prefix.
func (s *Store) Clear(_ context.Context, prefix string) error {
	if s.closed.Load() {
		return domain.ErrStorageClosed
	}
	var doomed []string
	s.items.Range(func(key string, _ string) bool {
		if strings.HasPrefix(key, prefix) {
			doomed = append(doomed, key)
		}
		return true
	})
	for _, key := range doomed {
		s.items.Delete(key)
	}
	return nil
}

// Stats reports usage for keys with the given prefix.
func (s *Store) Stats(_ context.Context, prefix string) (storage.Stats, error) {
	if s.closed.Load() {
		return storage.Stats{}, domain.ErrStorageClosed
	}
	var stats storage.Stats
	s.items.Range(func(key string, value string) bool {
		if strings.HasPrefix(key, prefix) {
			stats.Items++
			stats.UsedBytes += int64(len(key) + len(value))
		}
		return true
	})
	return stats, nil
}

// Close wipes the store. Subsequent operations fail with
// domain.ErrStorageClosed.
func (s *Store) Close() error {
	s.closed.Store(true)
	s.items.Clear()
	return nil
}
