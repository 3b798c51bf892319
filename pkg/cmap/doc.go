// Package cmap provides a concurrent-safe sharded map keyed by string.
//
// Sharding reduces lock contention under concurrent access, which
// matters for the session backend where reads, writes, reaper sweeps,
// and monitor cleanups interleave.
package cmap
