// Package storage defines the backend abstraction SecureStore records
// live in.
//
// Two storage areas exist: a persistent one that survives across
// sessions and a session-scoped one wiped when the owning process
// ends. Both are addressed through the same Backend interface so the
// item store, the expiry reaper, and the diagnostics reporter never
// care which engine is underneath.
//
// Engines:
//
//   - badgerkv: persistent storage on Badger v3 (default)
//   - dirkv: persistent storage as one file per record, observable by
//     external processes sharing the directory
//   - memkv: session storage on a sharded concurrent map
package storage
