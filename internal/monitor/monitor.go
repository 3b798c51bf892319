// Package monitor watches for security-relevant events around the
// store: externally observed mutations of sensitive keys, loss of
// application visibility, and process unload. It is platform-agnostic;
// the platform package (or the embedder) injects events through the
// Notify methods.
package monitor

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
	"github.com/bdc-labs/securestore-go/internal/telemetry/metric"
)

// Alert types.
const (
	AlertExternalMutation = "external_mutation"
)

// Alert is an advisory security notification. Alerts never block or
// fail store operations.
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionCleaner is the slice of the store the monitor needs for
// reactive cleanup.
type SessionCleaner interface {
	ClearSession(ctx context.Context)
	RemoveSessionMatching(ctx context.Context, pattern *regexp.Regexp) int
}

// Default event patterns, matched against the logical (namespace
// stripped) key.
var (
	DefaultAuthPattern = regexp.MustCompile(`(?i)(auth|token|session|credential|password)`)
	DefaultTempPattern = regexp.MustCompile(`(?i)(temp|tmp|transient)`)
)

// DefaultAlertRate caps alert emission at one per second with a small
// burst, so a flood of external writes cannot drown subscribers.
const (
	DefaultAlertRate  = rate.Limit(1)
	DefaultAlertBurst = 5
)

// Config configures the monitor.
type Config struct {
	// Namespace is the store's key prefix. Events for keys outside it
	// are ignored. Defaults to domain.DefaultNamespace.
	Namespace string

	// AuthPattern selects keys whose external mutation raises an alert.
	AuthPattern *regexp.Regexp

	// TempPattern selects session keys removed when the application
	// reports it is hidden.
	TempPattern *regexp.Regexp

	// AlertRate and AlertBurst bound alert emission. Zero values use
	// the defaults.
	AlertRate  rate.Limit
	AlertBurst int
}

// Monitor emits alerts and performs session cleanup in response to
// injected events.
type Monitor struct {
	cfg     Config
	cleaner SessionCleaner
	logger  logger.Logger
	metrics *metric.Metrics
	limiter *rate.Limiter

	mu   sync.RWMutex
	subs []func(Alert)
}

// New creates a monitor over the given session cleaner.
func New(cfg Config, cleaner SessionCleaner, log logger.Logger, m *metric.Metrics) *Monitor {
	if cfg.Namespace == "" {
		cfg.Namespace = domain.DefaultNamespace
	}
	if cfg.AuthPattern == nil {
		cfg.AuthPattern = DefaultAuthPattern
	}
	if cfg.TempPattern == nil {
		cfg.TempPattern = DefaultTempPattern
	}
	if cfg.AlertRate == 0 {
		cfg.AlertRate = DefaultAlertRate
	}
	if cfg.AlertBurst == 0 {
		cfg.AlertBurst = DefaultAlertBurst
	}
	if log == nil {
		log = logger.Default()
	}
	if m == nil {
		m = metric.Nop()
	}
	return &Monitor{
		cfg:     cfg,
		cleaner: cleaner,
		logger:  log,
		metrics: m,
		limiter: rate.NewLimiter(cfg.AlertRate, cfg.AlertBurst),
	}
}

// Subscribe registers fn for future alerts. Delivery is asynchronous;
// fn must tolerate being called from a separate goroutine.
func (m *Monitor) Subscribe(fn func(Alert)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// NotifyExternalMutation reports that storageKey changed outside this
// process. A mutation of a namespaced key matching the auth pattern
// emits exactly one alert, subject to the rate cap.
func (m *Monitor) NotifyExternalMutation(storageKey string) {
	logical, ok := strings.CutPrefix(storageKey, m.cfg.Namespace)
	if !ok {
		return
	}
	if !m.cfg.AuthPattern.MatchString(logical) {
		return
	}

	if !m.limiter.Allow() {
		m.logger.Debug("alert suppressed by rate cap", "key", logical)
		return
	}

	m.emit(Alert{
		ID:        ulid.Make().String(),
		Type:      AlertExternalMutation,
		Message:   "external modification of sensitive key " + logical,
		Timestamp: time.Now().UTC(),
	})
}

// NotifyVisibility reports an application visibility change. Going
// hidden removes temporary session records.
func (m *Monitor) NotifyVisibility(ctx context.Context, hidden bool) {
	if !hidden {
		return
	}
	removed := m.cleaner.RemoveSessionMatching(ctx, m.cfg.TempPattern)
	if removed > 0 {
		m.logger.Info("temporary session records removed on hide", "removed", removed)
	}
}

// NotifyUnload reports that the owning process is shutting down. The
// whole session namespace is wiped.
func (m *Monitor) NotifyUnload(ctx context.Context) {
	m.cleaner.ClearSession(ctx)
	m.logger.Info("session namespace cleared on unload")
}

func (m *Monitor) emit(a Alert) {
	m.metrics.AlertsEmitted.WithLabelValues(a.Type).Inc()
	m.logger.Warn("security alert", "alert_id", a.ID, "type", a.Type, "message", a.Message)

	m.mu.RLock()
	subs := make([]func(Alert), len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()

	for _, fn := range subs {
		go fn(a)
	}
}
