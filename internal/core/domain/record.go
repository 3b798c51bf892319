// Package domain defines the core domain models for SecureStore.
package domain

import (
	"encoding/json"
	"time"
)

// DefaultNamespace is the key prefix separating SecureStore records
// from unrelated keys sharing a storage area.
const DefaultNamespace = "bdc_secure_"

// KeyMaterialSuffix names the reserved entry holding exported key
// material. The entry is raw bytes, not a Record, so the reaper and
// integrity checks must skip it.
const KeyMaterialSuffix = "__key_material"

// Backend identifies one of the two storage areas records live in.
type Backend int

const (
	// BackendPersistent survives across sessions.
	BackendPersistent Backend = iota
	// BackendSession is wiped when the owning session ends.
	BackendSession
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendPersistent:
		return "persistent"
	case BackendSession:
		return "session"
	default:
		return "unknown"
	}
}

// Record is the unit persisted in a backend.
//
// A Record is only ever returned to a caller if its checksum matches a
// freshly computed digest of Value and its expiry is zero or in the
// future. Violating either treats the record as absent and deletes it
// from storage as a side effect of the read.
type Record struct {
	// Value is the opaque, JSON-serializable payload supplied by the caller.
	Value any `json:"value"`

	// Timestamp is the creation time (Unix milliseconds).
	Timestamp int64 `json:"timestamp"`

	// Expiry is the absolute expiration timestamp (Unix milliseconds).
	// Zero means the record never expires.
	Expiry int64 `json:"expiry"`

	// Sensitive routes the record to the session backend when true.
	Sensitive bool `json:"sensitive"`

	// Checksum is the integrity digest over the canonical serialization
	// of Value.
	Checksum string `json:"checksum"`
}

// NewRecord creates a Record for value with the given TTL.
// A zero ttl produces a record without expiry.
func NewRecord(value any, ttl time.Duration, sensitive bool) *Record {
	now := time.Now().UnixMilli()
	r := &Record{
		Value:     value,
		Timestamp: now,
		Sensitive: sensitive,
	}
	if ttl > 0 {
		r.Expiry = now + ttl.Milliseconds()
	}
	return r
}

// IsExpired returns true if the record has expired.
func (r *Record) IsExpired() bool {
	if r.Expiry == 0 {
		return false
	}
	return time.Now().UnixMilli() > r.Expiry
}

// Marshal serializes the record to JSON.
func (r *Record) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, ErrRecordEncoding.WithCause(err)
	}
	return data, nil
}

// UnmarshalRecord parses a serialized record.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, ErrRecordCorrupted.WithCause(err)
	}
	return &r, nil
}

// Backend returns the backend this record belongs to.
func (r *Record) Backend() Backend {
	if r.Sensitive {
		return BackendSession
	}
	return BackendPersistent
}
