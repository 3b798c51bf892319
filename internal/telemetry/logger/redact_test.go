package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestRedact_SensitiveAttrNames(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	l.Info("record written",
		"key", "bdc_secure_profile",
		"value", `{"name":"Ana"}`,
		"passphrase", "hunter2")

	out := buf.String()
	if strings.Contains(out, "Ana") {
		t.Fatalf("record payload leaked into log: %s", out)
	}
	if strings.Contains(out, "hunter2") {
		t.Fatalf("passphrase leaked into log: %s", out)
	}
	if !strings.Contains(out, redactedValue) {
		t.Fatalf("no redaction placeholder in log: %s", out)
	}
}

func TestRedact_PlainAttrsPass(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	l.Info("sweep done", "removed", 3, "backend", "persistent")

	out := buf.String()
	if !strings.Contains(out, "persistent") || !strings.Contains(out, `"removed":3`) {
		t.Fatalf("plain attributes mangled: %s", out)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "json", Output: &buf})

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("below-level entries logged: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn entry missing: %s", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	l.With("component", "reaper").Info("sweep done")
	if !strings.Contains(buf.String(), `"component":"reaper"`) {
		t.Fatalf("With attribute missing: %s", buf.String())
	}
}
