// Package domain defines the core domain models for SecureStore.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling: the stored record, the
// per-operation options, the backend identifiers, and the error
// taxonomy shared by every layer of the subsystem.
package domain
