// Package metric provides Prometheus metrics for SecureStore.
//
// It exposes operation counters (writes, reads, failures by kind),
// reaper and monitor activity, and per-backend usage gauges. The
// registry is injectable so embedders control exposure; tests use a
// private registry per instance.
package metric
