// Package dirkv implements a persistent backend as one file per record.
//
// The layout trades throughput for observability: because every record
// is an ordinary file in a shared directory, other processes can read,
// write, or delete records directly, and the platform watcher can
// surface those external mutations to the security monitor. Filenames
// are the percent-encoded record key plus a ".rec" suffix.
//
// Writes go through a temp file and rename so concurrent readers never
// observe a half-written record.
package dirkv
