package platform

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bdc-labs/securestore-go/internal/storage/dirkv"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
)

// MutationNotifier receives externally observed record mutations.
// Implemented by monitor.Monitor.
type MutationNotifier interface {
	NotifyExternalMutation(storageKey string)
}

// Source is the slice of the directory backend the watcher needs.
type Source interface {
	Dir() string
	OwnMutation(name string) bool
}

// Watcher turns filesystem events in the record directory into
// external-mutation notifications, suppressing events caused by this
// process's own writes.
type Watcher struct {
	source   Source
	notifier MutationNotifier
	logger   logger.Logger

	done    chan struct{}
	watcher *fsnotify.Watcher

	// Debounce per file so a temp-write-then-rename sequence counts
	// as one mutation.
	debounce time.Duration
	lastSeen map[string]time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the per-file debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher over the source's record directory.
func NewWatcher(source Source, notifier MutationNotifier, log logger.Logger, opts ...WatcherOption) *Watcher {
	if log == nil {
		log = logger.Default()
	}
	w := &Watcher{
		source:   source,
		notifier: notifier,
		logger:   log,
		done:     make(chan struct{}),
		debounce: 250 * time.Millisecond,
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start watches the record directory. Blocks until Stop is called.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("platform: create watcher: %w", err)
	}
	w.watcher = watcher

	dir := w.source.Dir()
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("platform: watch %s: %w", dir, err)
	}

	w.logger.Info("mutation watcher started", "dir", dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("mutation watcher error", "error", err)

		case <-w.done:
			return watcher.Close()
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.logger.Error("mutation watcher stopped with error", "error", err)
		}
	}()
}

// Stop stops watching.
func (w *Watcher) Stop() {
	close(w.done)
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, dirkv.RecordSuffix) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if w.source.OwnMutation(event.Name) {
		return
	}

	key, ok := dirkv.FileKey(event.Name)
	if !ok {
		return
	}

	now := time.Now()
	if at, seen := w.lastSeen[key]; seen && now.Sub(at) < w.debounce {
		return
	}
	w.lastSeen[key] = now

	w.logger.Debug("external mutation observed", "storage_key", key, "op", event.Op.String())
	w.notifier.NotifyExternalMutation(key)
}
