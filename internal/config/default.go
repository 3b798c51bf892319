package config

import (
	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/store"
)

// Default configuration values.
const (
	DefaultDataDir = "/var/lib/securestore/data"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreSection{
			Namespace:     domain.DefaultNamespace,
			SweepInterval: store.DefaultSweepInterval,
		},
		Storage: StorageSection{
			Engine:  EngineBadger,
			DataDir: DefaultDataDir,
		},
		Encryption: EncryptionSection{
			Enabled:   true,
			Algorithm: "auto",
			KeyPolicy: KeyPolicySession,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
