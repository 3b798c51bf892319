package command

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/bdc-labs/securestore-go/internal/config"
	"github.com/bdc-labs/securestore-go/internal/infra/confloader"
	"github.com/bdc-labs/securestore-go/internal/infra/shutdown"
	"github.com/bdc-labs/securestore-go/internal/monitor"
	"github.com/bdc-labs/securestore-go/internal/platform"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
)

// MonitorCommand returns the resident monitor command.
//
// It runs the expiry reaper, watches the record directory for
// external mutations, prints security alerts, and wipes the session
// namespace on shutdown.
func MonitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Watch the store for external mutations and expired records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9402)",
			},
		},
		Action: monitorAction,
	}
}

func monitorAction(c *cli.Context) error {
	r, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer r.Close()

	if r.dir == nil {
		return fmt.Errorf("monitor requires the dir engine (--engine dir): the badger engine holds an exclusive lock, so there are no external mutations to watch")
	}

	mon := monitor.New(monitor.Config{
		Namespace: r.cfg.Store.Namespace,
	}, r.store, r.log, r.metrics)

	mon.Subscribe(func(a monitor.Alert) {
		formatter(c).Format(c.App.Writer, a)
	})

	watcher := platform.NewWatcher(r.dir, mon, r.log)
	watcher.StartAsync()

	r.store.Start(c.Context)

	handler := shutdown.NewHandler(10 * time.Second)

	handler.OnShutdown(func(context.Context) error {
		watcher.Stop()
		return nil
	})
	// Registered last so it runs first: the unload wipe needs the
	// session backend still open.
	platform.NewLifecycle(mon).Bind(handler)

	if addr := c.String("metrics-addr"); addr != "" {
		go serveMetrics(addr, r.registry, r.log)
	}

	if path := c.String("config"); path != "" {
		stop, err := watchLogLevel(path, r.log)
		if err != nil {
			r.log.Warn("config watcher unavailable", "error", err)
		} else {
			defer stop()
		}
	}

	r.log.Info("monitor running", "dir", r.dir.Dir(), "namespace", r.cfg.Store.Namespace)
	return handler.Wait()
}

func serveMetrics(addr string, registry *prometheus.Registry, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Info("metrics listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server stopped", "error", err)
	}
}

// watchLogLevel reloads the log level when the config file changes.
func watchLogLevel(path string, log logger.Logger) (stop func(), err error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		loader := confloader.NewLoader(confloader.WithConfigFile(path))
		cfg := config.Default()
		if err := loader.Load(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level reloaded", "level", cfg.Log.Level)
	})

	w.StartAsync()
	return func() { w.Stop() }, nil
}
