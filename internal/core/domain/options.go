// Package domain defines the core domain models for SecureStore.
package domain

import "time"

// Options controls a single SetItem/GetItem operation.
//
// The zero value carries the defaults: encryption on, integrity
// checking on, no expiry, not sensitive. The negated boolean fields
// exist so callers opt out rather than opt in.
type Options struct {
	// NoEncrypt disables encryption for this record.
	NoEncrypt bool

	// TTL is the time-to-live for the record. Zero means no expiry.
	TTL time.Duration

	// Sensitive routes the record to the session backend so it never
	// outlives the session.
	Sensitive bool

	// SkipIntegrity disables checksum computation and verification.
	SkipIntegrity bool
}

// Encrypt reports whether the record should be encrypted.
func (o Options) Encrypt() bool { return !o.NoEncrypt }

// CheckIntegrity reports whether the checksum should be computed and
// verified.
func (o Options) CheckIntegrity() bool { return !o.SkipIntegrity }
