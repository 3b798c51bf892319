// Package dirkv implements a persistent backend as one file per record.
package dirkv

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/storage"
)

// RecordSuffix is the filename suffix for record files.
const RecordSuffix = ".rec"

// touchWindow is how long an own write is remembered so the platform
// watcher can tell it apart from an external mutation.
const touchWindow = 2 * time.Second

// Store is a directory-backed persistent backend.
type Store struct {
	dir string

	mu      sync.Mutex
	touched map[string]time.Time
}

// Open creates the directory if needed and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	return &Store{
		dir:     dir,
		touched: make(map[string]time.Time),
	}, nil
}

// Dir returns the storage directory, for the platform watcher.
func (s *Store) Dir() string { return s.dir }

// FileKey translates a record filename back to its key.
// The boolean is false for files that are not records.
func FileKey(name string) (string, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, RecordSuffix) {
		return "", false
	}
	key, err := url.QueryUnescape(strings.TrimSuffix(base, RecordSuffix))
	if err != nil {
		return "", false
	}
	return key, true
}

func fileName(key string) string {
	return url.QueryEscape(key) + RecordSuffix
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

// touch records an own mutation of the named file.
func (s *Store) touch(name string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for n, at := range s.touched {
		if now.Sub(at) > touchWindow {
			delete(s.touched, n)
		}
	}
	s.touched[name] = now
}

// OwnMutation reports whether this process recently wrote or deleted
// the named file. Used by the platform watcher to suppress self-origin
// events.
func (s *Store) OwnMutation(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.touched[filepath.Base(name)]
	return ok && time.Since(at) <= touchWindow
}

// Set stores a blob under key via temp file and rename.
func (s *Store) Set(_ context.Context, key, value string) error {
	name := fileName(key)
	s.touch(name)

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

// Get retrieves the blob stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, domain.ErrStorageUnavailable.WithCause(err)
	}
	return string(data), true, nil
}

// Delete removes a key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.touch(fileName(key))
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

// Keys lists all keys with the given prefix.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, ok := FileKey(entry.Name())
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Clear removes every key with the given prefix.
func (s *Store) Clear(ctx context.Context, prefix string) error {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports usage for keys with the given prefix.
func (s *Store) Stats(_ context.Context, prefix string) (storage.Stats, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return storage.Stats{}, domain.ErrStorageUnavailable.WithCause(err)
	}
	var stats storage.Stats
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, ok := FileKey(entry.Name())
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Items++
		stats.UsedBytes += int64(len(key)) + info.Size()
	}
	return stats, nil
}

// Close is a no-op: persistent storage outlives the process.
func (s *Store) Close() error { return nil }
