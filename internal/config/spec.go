package config

import "time"

// Config is the root configuration for securestore.
type Config struct {
	Store      StoreSection      `koanf:"store"`
	Storage    StorageSection    `koanf:"storage"`
	Encryption EncryptionSection `koanf:"encryption"`
	Monitor    MonitorSection    `koanf:"monitor"`
	Log        LogSection        `koanf:"log"`
}

// StoreSection configures the item store facade.
type StoreSection struct {
	// Namespace is the key prefix separating securestore records from
	// unrelated keys in shared backends.
	Namespace string `koanf:"namespace"`

	// SweepInterval is the expiry reaper period. Negative disables the
	// background sweep.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// Storage engine names.
const (
	EngineBadger = "badger"
	EngineDir    = "dir"
)

// StorageSection configures the persistent backend.
type StorageSection struct {
	// Engine selects the persistent backend: "badger" or "dir".
	Engine string `koanf:"engine"`

	// DataDir is the directory holding persistent records.
	DataDir string `koanf:"data_dir"`

	// SyncWrites forces fsync on every write (badger engine).
	SyncWrites bool `koanf:"sync_writes"`

	// CacheSize is the badger block cache size in bytes.
	CacheSize int64 `koanf:"cache_size"`
}

// Key policy names.
const (
	KeyPolicySession    = "session"
	KeyPolicyPersistent = "persistent"
	KeyPolicyDerived    = "derived"
)

// EncryptionSection configures record encryption.
type EncryptionSection struct {
	// Enabled turns record encryption on. When off, records are stored
	// base64-encoded but readable.
	Enabled bool `koanf:"enabled"`

	// Algorithm selects the AEAD: "auto", "aes-gcm" or "chacha20".
	Algorithm string `koanf:"algorithm"`

	// KeyPolicy controls key lifetime: "session" generates a fresh key
	// per process, "persistent" stores the key alongside the records,
	// "derived" derives it from the passphrase.
	KeyPolicy string `koanf:"key_policy"`

	// Passphrase feeds the derived key policy.
	Passphrase string `koanf:"passphrase"`
}

// MonitorSection configures the security monitor.
type MonitorSection struct {
	// TransportSecure is the embedder's statement that the surrounding
	// transport is secure. Feeds diagnostics.
	TransportSecure bool `koanf:"transport_secure"`

	// Watch enables the filesystem mutation watcher. Dir engine only.
	Watch bool `koanf:"watch"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
