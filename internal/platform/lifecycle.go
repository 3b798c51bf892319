package platform

import (
	"context"

	"github.com/bdc-labs/securestore-go/internal/infra/shutdown"
)

// LifecycleNotifier receives application lifecycle transitions.
// Implemented by monitor.Monitor.
type LifecycleNotifier interface {
	NotifyVisibility(ctx context.Context, hidden bool)
	NotifyUnload(ctx context.Context)
}

// Lifecycle maps host lifecycle events onto the security monitor.
//
// Process termination maps to unload via the shutdown handler.
// Visibility has no portable OS signal, so embedders report it through
// Hidden and Visible directly.
type Lifecycle struct {
	notifier LifecycleNotifier
}

// NewLifecycle creates a lifecycle adapter for the notifier.
func NewLifecycle(notifier LifecycleNotifier) *Lifecycle {
	return &Lifecycle{notifier: notifier}
}

// Bind registers the unload notification as a shutdown hook. Register
// it after the store's own hooks so it runs before the store closes.
func (l *Lifecycle) Bind(h *shutdown.Handler) {
	h.OnShutdown(func(ctx context.Context) error {
		l.notifier.NotifyUnload(ctx)
		return nil
	})
}

// Hidden reports that the embedding application lost visibility.
func (l *Lifecycle) Hidden(ctx context.Context) {
	l.notifier.NotifyVisibility(ctx, true)
}

// Visible reports that the embedding application regained visibility.
func (l *Lifecycle) Visible(ctx context.Context) {
	l.notifier.NotifyVisibility(ctx, false)
}
