// Package platform bridges the host environment to the security
// monitor: a filesystem watcher that detects record mutations made by
// other processes, and a lifecycle adapter that maps process signals
// to unload events.
package platform
