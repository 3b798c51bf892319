// Package domain defines the core domain models for SecureStore.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a subsystem error with a structured error code.
//
// Codes group by concern: SS-KEY (key lifecycle), SS-ENC (cipher codec),
// SS-REC (record integrity/lifecycle), SS-STOR (backend IO). None of
// these errors cross the public facade: every public operation resolves
// to a value or boolean, and the error is logged instead.
type DomainError struct {
	Code    string // Error code (e.g., "SS-REC-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Key Lifecycle Errors (KEY)
// ============================================================================

var (
	// ErrKeyInitFailed indicates key generation, import, or export failed.
	// Recovered locally by switching to fallback mode, never surfaced.
	ErrKeyInitFailed = NewDomainError("SS-KEY-5000", "encryption key initialization failed")

	// ErrCryptoUnavailable indicates the platform offers no cryptographic
	// primitives.
	ErrCryptoUnavailable = NewDomainError("SS-KEY-5001", "cryptography provider unavailable")
)

// ============================================================================
// Cipher Codec Errors (ENC)
// ============================================================================

var (
	// ErrEncryptFailed indicates authenticated encryption failed.
	ErrEncryptFailed = NewDomainError("SS-ENC-5000", "encryption failed")

	// ErrDecryptFailed indicates neither authenticated decryption nor the
	// plaintext fallback transform could recover the payload.
	ErrDecryptFailed = NewDomainError("SS-ENC-5001", "decryption failed")
)

// ============================================================================
// Record Errors (REC)
// ============================================================================

var (
	// ErrRecordNotFound indicates the key exists in neither backend.
	ErrRecordNotFound = NewDomainError("SS-REC-4040", "record not found")

	// ErrRecordExpired indicates the record's expiry has passed.
	ErrRecordExpired = NewDomainError("SS-REC-4041", "record expired")

	// ErrIntegrityFailure indicates the stored checksum does not match a
	// freshly computed digest of the value.
	ErrIntegrityFailure = NewDomainError("SS-REC-4001", "record integrity verification failed")

	// ErrRecordCorrupted indicates the stored blob could not be parsed.
	ErrRecordCorrupted = NewDomainError("SS-REC-4002", "record corrupted")

	// ErrRecordEncoding indicates the value could not be serialized.
	ErrRecordEncoding = NewDomainError("SS-REC-4000", "record serialization failed")
)

// ============================================================================
// Storage Errors (STOR)
// ============================================================================

var (
	// ErrStorageUnavailable indicates a backend failed on read or write
	// (e.g., quota exceeded, disk error).
	ErrStorageUnavailable = NewDomainError("SS-STOR-5000", "storage backend unavailable")

	// ErrStorageClosed indicates the backend has been closed.
	ErrStorageClosed = NewDomainError("SS-STOR-5001", "storage backend closed")
)
