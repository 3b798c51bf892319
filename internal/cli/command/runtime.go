package command

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/bdc-labs/securestore-go/internal/cli/output"
	"github.com/bdc-labs/securestore-go/internal/config"
	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/infra/confloader"
	"github.com/bdc-labs/securestore-go/internal/keyring"
	"github.com/bdc-labs/securestore-go/internal/storage"
	"github.com/bdc-labs/securestore-go/internal/storage/badgerkv"
	"github.com/bdc-labs/securestore-go/internal/storage/dirkv"
	"github.com/bdc-labs/securestore-go/internal/storage/memkv"
	"github.com/bdc-labs/securestore-go/internal/store"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
	"github.com/bdc-labs/securestore-go/internal/telemetry/metric"
)

// runtime is the composed storage subsystem behind one CLI invocation.
type runtime struct {
	cfg      *config.Config
	log      logger.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	persistent storage.Backend
	dir        *dirkv.Store // non-nil for the dir engine
	session    storage.Backend
	store      *store.Store
}

// loadConfig merges defaults, file, environment, and flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	// A one-shot process cannot reuse a session-scoped key, so the CLI
	// default differs from the library default. File, env, and flags
	// all still override it.
	cfg.Encryption.KeyPolicy = config.KeyPolicyPersistent

	loader := confloader.NewLoader(confloader.WithConfigFile(c.String("config")))
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	overrides := make(map[string]any)
	if c.IsSet("data-dir") {
		overrides["storage.data_dir"] = c.String("data-dir")
	}
	if c.IsSet("engine") {
		overrides["storage.engine"] = c.String("engine")
	}
	if c.IsSet("namespace") {
		overrides["store.namespace"] = c.String("namespace")
	}
	if c.IsSet("key-policy") {
		overrides["encryption.key_policy"] = c.String("key-policy")
	}
	if c.IsSet("passphrase") {
		overrides["encryption.passphrase"] = c.String("passphrase")
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
		overrides["log.format"] = "text"
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openRuntime composes backends, keyring, and store from the merged
// configuration.
func openRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	logger.SetDefault(log)

	r := &runtime{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	r.metrics = metric.New(r.registry)

	switch cfg.Storage.Engine {
	case config.EngineDir:
		dir, err := dirkv.Open(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open dir backend: %w", err)
		}
		r.dir = dir
		r.persistent = dir
	default:
		bcfg := badgerkv.DefaultConfig(cfg.Storage.DataDir)
		bcfg.SyncWrites = cfg.Storage.SyncWrites
		if cfg.Storage.CacheSize > 0 {
			bcfg.CacheSize = cfg.Storage.CacheSize
		}
		engine, err := badgerkv.Open(bcfg, log)
		if err != nil {
			return nil, fmt.Errorf("open badger backend: %w", err)
		}
		r.persistent = engine
	}

	r.session = memkv.New()

	algorithm, _ := cfg.Encryption.CipherAlgorithm()
	keys := keyring.New(keyring.Config{
		Namespace:  cfg.Store.Namespace,
		Policy:     keyring.Policy(cfg.Encryption.KeyPolicy),
		Algorithm:  algorithm,
		Passphrase: []byte(cfg.Encryption.Passphrase),
	}, nil, r.session, r.persistent, log)

	// One-shot commands never call Start, so the sweep interval only
	// takes effect for the resident monitor command.
	r.store = store.New(store.Config{
		Namespace:       cfg.Store.Namespace,
		SweepInterval:   cfg.Store.SweepInterval,
		TransportSecure: cfg.Monitor.TransportSecure,
	}, r.persistent, r.session, keys, log, r.metrics)

	return r, nil
}

// Close tears the runtime down in reverse order of construction.
func (r *runtime) Close() {
	r.store.Close()
	if err := r.session.Close(); err != nil {
		r.log.Warn("session backend close failed", "error", err)
	}
	if err := r.persistent.Close(); err != nil {
		r.log.Warn("persistent backend close failed", "error", err)
	}
}

// options derives record options from command flags and config.
func (r *runtime) options(c *cli.Context) domain.Options {
	return domain.Options{
		NoEncrypt: !r.cfg.Encryption.Enabled || c.Bool("no-encrypt"),
		TTL:       c.Duration("ttl"),
		Sensitive: c.Bool("sensitive"),
	}
}

// formatter picks the output formatter from the global flag.
func formatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(c.String("output")))
}
