// Package metric provides Prometheus metrics for SecureStore.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all SecureStore collectors.
type Metrics struct {
	// ItemsWritten counts successful SetItem operations.
	ItemsWritten prometheus.Counter

	// ItemsRead counts GetItem operations that returned a value.
	ItemsRead prometheus.Counter

	// ReadMisses counts GetItem operations that returned nothing.
	ReadMisses prometheus.Counter

	// Failures counts recovered failures by kind:
	// encrypt, decrypt_fallback, decrypt, integrity, storage, key_init.
	Failures *prometheus.CounterVec

	// ExpiredReaped counts records deleted by the expiry reaper.
	ExpiredReaped prometheus.Counter

	// AlertsEmitted counts security alerts by type.
	AlertsEmitted *prometheus.CounterVec

	// BackendItems gauges namespaced record counts per backend.
	BackendItems *prometheus.GaugeVec

	// BackendBytes gauges approximate namespaced usage per backend.
	BackendBytes *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ItemsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "securestore",
			Name:      "items_written_total",
			Help:      "Successful SetItem operations.",
		}),
		ItemsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "securestore",
			Name:      "items_read_total",
			Help:      "GetItem operations that returned a value.",
		}),
		ReadMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "securestore",
			Name:      "read_misses_total",
			Help:      "GetItem operations that returned nothing.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securestore",
			Name:      "failures_total",
			Help:      "Recovered failures by kind.",
		}, []string{"kind"}),
		ExpiredReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "securestore",
			Name:      "expired_reaped_total",
			Help:      "Records deleted by the expiry reaper.",
		}),
		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securestore",
			Name:      "alerts_emitted_total",
			Help:      "Security alerts emitted by type.",
		}, []string{"type"}),
		BackendItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "securestore",
			Name:      "backend_items",
			Help:      "Namespaced records per backend.",
		}, []string{"backend"}),
		BackendBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "securestore",
			Name:      "backend_bytes",
			Help:      "Approximate namespaced bytes per backend.",
		}, []string{"backend"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ItemsWritten, m.ItemsRead, m.ReadMisses, m.Failures,
			m.ExpiredReaped, m.AlertsEmitted, m.BackendItems, m.BackendBytes,
		)
	}
	return m
}

// Failure kinds.
const (
	FailureEncrypt         = "encrypt"
	FailureDecrypt         = "decrypt"
	FailureDecryptFallback = "decrypt_fallback"
	FailureIntegrity       = "integrity"
	FailureStorage         = "storage"
	FailureKeyInit         = "key_init"
)

// Nop returns unregistered collectors, for components constructed
// without metrics.
func Nop() *Metrics {
	return New(nil)
}
