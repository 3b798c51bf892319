// Package integrity computes and verifies record checksums.
package integrity

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"

	"github.com/spaolacci/murmur3"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
)

// Digest computes the checksum of a value over its canonical
// serialization.
//
// Digests are stable across the storage round trip: a typed struct and
// the map[string]any it decodes back into produce the same digest.
func Digest(value any) (string, error) {
	data, err := canonicalize(value)
	if err != nil {
		return "", err
	}

	h1, h2 := murmur3.Sum128(data)
	sum := make([]byte, 16)
	for i := 0; i < 8; i++ {
		sum[i] = byte(h1 >> (56 - 8*i))
		sum[8+i] = byte(h2 >> (56 - 8*i))
	}
	return hex.EncodeToString(sum), nil
}

// Verify checks a value against an expected digest.
//
// Uses constant-time comparison so the checksum cannot be probed
// byte by byte.
func Verify(value any, expected string) bool {
	actual, err := Digest(value)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}

// canonicalize produces the canonical JSON encoding of a value.
//
// The value is marshaled, decoded into generic JSON types, and
// marshaled again. encoding/json sorts map keys, so the second pass is
// deterministic regardless of whether the input was a typed struct or
// an already-decoded map.
func canonicalize(value any) ([]byte, error) {
	first, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrRecordEncoding.WithCause(err)
	}

	var generic any
	if err := json.Unmarshal(first, &generic); err != nil {
		return nil, domain.ErrRecordEncoding.WithCause(err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, domain.ErrRecordEncoding.WithCause(err)
	}
	return canonical, nil
}
