package command

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// runApp runs one CLI invocation against a dir-engine store, the way
// separate process invocations would.
func runApp(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf

	full := append([]string{
		"securestore",
		"--engine", "dir",
		"--data-dir", dataDir,
		"--output", "json",
	}, args...)
	err := app.Run(full)
	return buf.String(), err
}

func TestSetGet_AcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "greeting", "hello"); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err := runApp(t, dir, "get", "greeting")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, `"hello"`) {
		t.Fatalf("get output = %q, want hello", out)
	}
}

func TestSetGet_StructuredValue(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "profile", `{"name":"Ana","age":30}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err := runApp(t, dir, "get", "profile")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, `"Ana"`) || !strings.Contains(out, `"age"`) {
		t.Fatalf("get output = %q, want structured value", out)
	}
}

func TestGet_MissingKey(t *testing.T) {
	if _, err := runApp(t, t.TempDir(), "get", "absent"); err == nil {
		t.Fatal("get accepted a missing key")
	}
}

func TestSensitive_DoesNotSurviveInvocation(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "--sensitive", "token", "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Session storage is per process, so a new invocation cannot see it.
	if _, err := runApp(t, dir, "get", "token"); err == nil {
		t.Fatal("sensitive record survived into a new invocation")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := runApp(t, dir, "rm", "a"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := runApp(t, dir, "get", "a"); err == nil {
		t.Fatal("record survived rm")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()

	runApp(t, dir, "set", "a", "1")
	runApp(t, dir, "set", "b", "2")
	if _, err := runApp(t, dir, "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := runApp(t, dir, "get", "a"); err == nil {
		t.Fatal("record survived clear")
	}
}

func TestSweep_RemovesExpired(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "--ttl", "10ms", "ephemeral", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	out, err := runApp(t, dir, "sweep")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, `"removed": 1`) {
		t.Fatalf("sweep output = %q, want removed 1", out)
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()

	runApp(t, dir, "set", "a", "1")
	out, err := runApp(t, dir, "info")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if !strings.Contains(out, `"security"`) || !strings.Contains(out, `"storage"`) {
		t.Fatalf("info output = %q", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"version"`) {
		t.Fatalf("version output = %q", out)
	}
}

func TestNoEncryptRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "--no-encrypt", "plain", "visible"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := runApp(t, dir, "get", "--no-encrypt", "plain")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("get output = %q, want visible", out)
	}
}
