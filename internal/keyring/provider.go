// Package keyring owns the lifecycle of the record encryption key.
package keyring

import (
	"crypto/rand"

	"github.com/bdc-labs/securestore-go/pkg/crypto/adaptive"
)

// Provider abstracts the cryptographic primitive source so tests can
// simulate a platform without cryptography.
type Provider interface {
	// GenerateKey returns n cryptographically random bytes.
	GenerateKey(n int) ([]byte, error)

	// NewCipher builds an AEAD cipher over the key. An empty algorithm
	// selects automatically.
	NewCipher(key []byte, alg adaptive.Algorithm) (adaptive.Cipher, error)
}

// SystemProvider is the real provider backed by crypto/rand and the
// adaptive cipher.
type SystemProvider struct{}

// GenerateKey returns n random bytes.
func (SystemProvider) GenerateKey(n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// NewCipher builds an AEAD cipher over the key.
func (SystemProvider) NewCipher(key []byte, alg adaptive.Algorithm) (adaptive.Cipher, error) {
	if alg == "" {
		return adaptive.New(key)
	}
	return adaptive.NewWithAlgorithm(key, alg)
}
