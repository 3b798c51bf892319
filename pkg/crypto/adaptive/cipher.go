// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
package adaptive

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"runtime"
)

// KeySize is the key length in bytes required by both supported ciphers.
const KeySize = 32

// Algorithm identifies the cipher algorithm.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Errors returned by the cipher layer.
var (
	ErrInvalidKeySize   = errors.New("adaptive: key must be 32 bytes")
	ErrCiphertextShort  = errors.New("adaptive: ciphertext shorter than nonce")
	ErrUnknownAlgorithm = errors.New("adaptive: unknown algorithm")
)

// Cipher provides authenticated encryption with a nonce-prefixed
// ciphertext layout.
type Cipher interface {
	// Algorithm returns the cipher algorithm in use.
	Algorithm() Algorithm

	// Seal encrypts plaintext, prepending a fresh random nonce.
	Seal(plaintext, additionalData []byte) ([]byte, error)

	// Open authenticates and decrypts a nonce-prefixed ciphertext.
	Open(ciphertext, additionalData []byte) ([]byte, error)
}

// New creates a cipher with the given 32-byte key, selecting the
// algorithm best suited to the host hardware.
func New(key []byte) (Cipher, error) {
	if hasHardwareAES() {
		return NewWithAlgorithm(key, AlgorithmAESGCM)
	}
	return NewWithAlgorithm(key, AlgorithmChaCha20)
}

// NewWithAlgorithm creates a cipher of the requested algorithm.
func NewWithAlgorithm(key []byte, alg Algorithm) (Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	switch alg {
	case AlgorithmAESGCM:
		return newAESGCM(key)
	case AlgorithmChaCha20:
		return newChaCha20(key)
	default:
		return nil, ErrUnknownAlgorithm
	}
}

// hasHardwareAES reports whether the architecture carries AES
// acceleration. Go's crypto/aes uses AES-NI on amd64 and the ARM
// crypto extensions on arm64 automatically.
func hasHardwareAES() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// aeadCipher carries the shared seal/open logic for both algorithms.
type aeadCipher struct {
	alg  Algorithm
	aead cipher.AEAD
}

func (c *aeadCipher) Algorithm() Algorithm { return c.alg }

func (c *aeadCipher) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Open(ciphertext, additionalData []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(ciphertext) < ns {
		return nil, ErrCiphertextShort
	}
	return c.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], additionalData)
}
