// Package logger provides structured logging for SecureStore.
//
// It wraps log/slog to provide structured JSON logging with automatic
// redaction of sensitive attributes: record payloads, key material,
// and anything whose attribute name suggests credentials never reach
// the log output in the clear.
package logger
