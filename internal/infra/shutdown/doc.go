// Package shutdown coordinates graceful teardown of the storage
// subsystem.
//
// The handler waits for SIGINT or SIGTERM (or a programmatic Trigger)
// and runs registered hooks in reverse order under a timeout: unload
// notification first, then store and backend closes.
package shutdown
