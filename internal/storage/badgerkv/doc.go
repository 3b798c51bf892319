// Package badgerkv implements the default persistent backend on
// Badger v3.
//
// Badger holds an exclusive lock on its directory, so unlike dirkv
// this engine is single-process: external mutation detection is not
// available over it, and the security monitor relies on injected
// events instead.
package badgerkv
