// Package memkv implements the session-scoped storage backend.
//
// Records live in a sharded concurrent map and vanish when the backend
// is closed, matching the lifetime of session storage: nothing written
// here survives the owning process.
package memkv
