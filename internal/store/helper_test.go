package store

import (
	"errors"
	"regexp"
	"testing"

	"github.com/bdc-labs/securestore-go/pkg/crypto/adaptive"
)

// unavailableProvider simulates a platform without cryptography.
type unavailableProvider struct{}

func (unavailableProvider) GenerateKey(int) ([]byte, error) {
	return nil, errors.New("crypto unavailable")
}

func (unavailableProvider) NewCipher([]byte, adaptive.Algorithm) (adaptive.Cipher, error) {
	return nil, errors.New("crypto unavailable")
}

func tempPattern(t *testing.T) *regexp.Regexp {
	t.Helper()
	return regexp.MustCompile(`(?i)(temp|tmp|transient)`)
}
