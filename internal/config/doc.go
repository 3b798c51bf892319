// Package config defines the securestore configuration structure.
//
// Configuration is loaded by infra/confloader with priority
// Flag > Env > File > Default, verified by Verify, and sanitized by
// Sanitize before logging.
package config
