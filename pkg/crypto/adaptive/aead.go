// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
package adaptive

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

// newAESGCM builds an AES-256-GCM cipher.
func newAESGCM(key []byte) (Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aeadCipher{alg: AlgorithmAESGCM, aead: aead}, nil
}

// newChaCha20 builds a ChaCha20-Poly1305 cipher.
func newChaCha20(key []byte) (Cipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &aeadCipher{alg: AlgorithmChaCha20, aead: aead}, nil
}
