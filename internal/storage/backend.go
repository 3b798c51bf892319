// Package storage defines the backend abstraction SecureStore records
// live in.
package storage

import "context"

// Backend is a flat string-to-blob store shared by all engines.
//
// Implementations must be safe for concurrent use. Values are opaque
// encoded blobs; the backend never inspects them.
type Backend interface {
	// Set stores a blob under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Get retrieves the blob stored under key. The boolean reports
	// presence; an error means the backend itself failed.
	Get(ctx context.Context, key string) (string, bool, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Clear removes every key with the given prefix, leaving other
	// keys untouched.
	Clear(ctx context.Context, prefix string) error

	// Stats reports the count and approximate byte usage of keys with
	// the given prefix. Usage is key length plus blob length.
	Stats(ctx context.Context, prefix string) (Stats, error)

	// Close releases the backend. Session-scoped engines wipe their
	// contents here.
	Close() error
}

// Stats describes a backend's usage within one namespace.
type Stats struct {
	// Items is the number of namespaced keys.
	Items int

	// UsedBytes is the approximate combined size of keys and blobs.
	UsedBytes int64
}
