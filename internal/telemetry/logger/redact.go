// Package logger provides structured logging for SecureStore.
package logger

import (
	"log/slog"
	"strings"
)

// Attribute names whose values must never appear in the log output.
// Record payloads and key material are included wholesale: the store
// logs keys and outcomes, never contents.
var sensitiveKeyPatterns = []string{
	"value",
	"payload",
	"passphrase",
	"password",
	"secret",
	"key_material",
	"credential",
	"token",
	"auth",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive redacts an attribute whose name suggests sensitive
// content. Nested groups are handled recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
				return a
			}
			return slog.String(a.Key, redactedValue)
		}
	}
	return a
}
