// Package keyring owns the lifecycle of the record encryption key.
package keyring

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/storage"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
	"github.com/bdc-labs/securestore-go/pkg/crypto/adaptive"
)

// Policy selects where the encryption key lives across sessions.
type Policy string

const (
	// PolicySession parks the key only in the session backend. Records
	// persisted across sessions become unreadable once the session ends.
	PolicySession Policy = "session"

	// PolicyPersistent parks the key in the persistent backend so
	// persisted ciphertext survives restarts.
	PolicyPersistent Policy = "persistent"

	// PolicyDerived derives the key from a passphrase; nothing but the
	// salt is stored, and the key is stable across sessions.
	PolicyDerived Policy = "derived"
)

// SaltSuffix names the reserved persistent entry holding the key
// derivation salt under the derived policy. The salt is not secret.
const SaltSuffix = "__key_salt"

const (
	keySize    = adaptive.KeySize
	saltSize   = 16
	hkdfRecord = "securestore/record-encryption"

	// Argon2id parameters for the derived policy.
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Key is the handle returned by Initialize: either a live cipher or
// the fallback sentinel meaning encryption is not available.
type Key struct {
	cipher adaptive.Cipher
}

// Fallback reports whether this is the sentinel.
func (k Key) Fallback() bool { return k.cipher == nil }

// Cipher returns the AEAD cipher, or nil for the sentinel.
func (k Key) Cipher() adaptive.Cipher { return k.cipher }

// FallbackKey is the sentinel handle.
var FallbackKey = Key{}

// Config configures the key manager.
type Config struct {
	// Namespace is the storage key prefix.
	Namespace string

	// Policy selects the key lifetime. Defaults to PolicySession.
	Policy Policy

	// Algorithm pins the cipher algorithm. Empty selects automatically.
	Algorithm adaptive.Algorithm

	// Passphrase feeds key derivation under PolicyDerived.
	Passphrase []byte
}

// Manager owns the encryption key for the current session.
type Manager struct {
	cfg        Config
	provider   Provider
	session    storage.Backend
	persistent storage.Backend
	logger     logger.Logger

	mu  sync.Mutex
	key *Key
}

// New creates a key manager. The key is not touched until Initialize.
func New(cfg Config, provider Provider, session, persistent storage.Backend, log logger.Logger) *Manager {
	if cfg.Namespace == "" {
		cfg.Namespace = domain.DefaultNamespace
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicySession
	}
	if provider == nil {
		provider = SystemProvider{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &Manager{
		cfg:        cfg,
		provider:   provider,
		session:    session,
		persistent: persistent,
		logger:     log,
	}
}

// Initialize returns the session's key handle, creating or importing
// key material on first call. It never fails: every error collapses to
// the fallback sentinel and is logged.
func (m *Manager) Initialize(ctx context.Context) Key {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != nil {
		return *m.key
	}

	key, err := m.initialize(ctx)
	if err != nil {
		m.logger.Warn("encryption unavailable, using fallback codec",
			"error", domain.ErrKeyInitFailed.WithCause(err))
		key = FallbackKey
	}
	m.key = &key
	return key
}

func (m *Manager) initialize(ctx context.Context) (Key, error) {
	if m.cfg.Policy == PolicyDerived {
		return m.deriveKey(ctx)
	}

	backend := m.session
	if m.cfg.Policy == PolicyPersistent {
		backend = m.persistent
	}
	storageKey := m.cfg.Namespace + domain.KeyMaterialSuffix

	// Reuse previously exported material from this session.
	if encoded, ok, err := backend.Get(ctx, storageKey); err == nil && ok {
		material, err := base64.StdEncoding.DecodeString(encoded)
		if err == nil && len(material) == keySize {
			if cipher, err := m.provider.NewCipher(material, m.cfg.Algorithm); err == nil {
				return Key{cipher: cipher}, nil
			}
		}
		// Unusable material is replaced below.
		m.logger.Warn("stored key material unusable, regenerating")
	}

	material, err := m.provider.GenerateKey(keySize)
	if err != nil {
		return FallbackKey, err
	}
	cipher, err := m.provider.NewCipher(material, m.cfg.Algorithm)
	if err != nil {
		return FallbackKey, err
	}

	// Export so repeated initializations within the session reuse the
	// key instead of invalidating earlier records.
	encoded := base64.StdEncoding.EncodeToString(material)
	if err := backend.Set(ctx, storageKey, encoded); err != nil {
		return FallbackKey, err
	}

	return Key{cipher: cipher}, nil
}

// deriveKey derives the key from the passphrase via Argon2id and an
// HKDF subkey. Only the salt is persisted.
func (m *Manager) deriveKey(ctx context.Context) (Key, error) {
	if len(m.cfg.Passphrase) == 0 {
		return FallbackKey, domain.ErrKeyInitFailed.WithDetails("derived policy requires a passphrase")
	}

	saltKey := m.cfg.Namespace + SaltSuffix
	var salt []byte
	if encoded, ok, err := m.persistent.Get(ctx, saltKey); err == nil && ok {
		salt, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(salt) != saltSize {
			salt = nil
		}
	}
	if salt == nil {
		var err error
		salt, err = m.provider.GenerateKey(saltSize)
		if err != nil {
			return FallbackKey, err
		}
		if err := m.persistent.Set(ctx, saltKey, base64.StdEncoding.EncodeToString(salt)); err != nil {
			return FallbackKey, err
		}
	}

	master := argon2.IDKey(m.cfg.Passphrase, salt, argonTime, argonMemory, argonThreads, keySize)
	material := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(hkdfRecord)), material); err != nil {
		return FallbackKey, err
	}
	Zero(master)

	cipher, err := m.provider.NewCipher(material, m.cfg.Algorithm)
	if err != nil {
		return FallbackKey, err
	}
	return Key{cipher: cipher}, nil
}

// Zero wipes key material in memory.
func Zero(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
