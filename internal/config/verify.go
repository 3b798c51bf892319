package config

import (
	"errors"
	"os"

	"github.com/bdc-labs/securestore-go/pkg/crypto/adaptive"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyStore(&cfg.Store); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyEncryption(&cfg.Encryption); err != nil {
		return err
	}
	return verifyMonitor(cfg)
}

func verifyStore(cfg *StoreSection) error {
	if cfg.Namespace == "" {
		return errors.New("store.namespace is required")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.Engine != EngineBadger && cfg.Engine != EngineDir {
		return errors.New("storage.engine must be \"badger\" or \"dir\"")
	}
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}
	return nil
}

func verifyEncryption(cfg *EncryptionSection) error {
	if _, ok := cfg.CipherAlgorithm(); !ok {
		return errors.New("encryption.algorithm must be \"auto\", \"aes-gcm\" or \"chacha20\"")
	}
	switch cfg.KeyPolicy {
	case KeyPolicySession, KeyPolicyPersistent:
	case KeyPolicyDerived:
		if cfg.Passphrase == "" {
			return errors.New("encryption.key_policy \"derived\" requires encryption.passphrase")
		}
	default:
		return errors.New("encryption.key_policy must be \"session\", \"persistent\" or \"derived\"")
	}
	return nil
}

func verifyMonitor(cfg *Config) error {
	if cfg.Monitor.Watch && cfg.Storage.Engine != EngineDir {
		return errors.New("monitor.watch requires storage.engine \"dir\"")
	}
	return nil
}

// CipherAlgorithm maps the configured algorithm name to the cipher
// layer's identifier. Empty means automatic selection. The boolean is
// false for unknown names.
func (e *EncryptionSection) CipherAlgorithm() (adaptive.Algorithm, bool) {
	switch e.Algorithm {
	case "", "auto":
		return "", true
	case "aes-gcm":
		return adaptive.AlgorithmAESGCM, true
	case "chacha20", "chacha20-poly1305":
		return adaptive.AlgorithmChaCha20, true
	default:
		return "", false
	}
}
