package badgerkv

import (
	"context"
	"testing"

	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(DefaultConfig(t.TempDir()), logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngine_SetGetDelete(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	if err := e.Set(ctx, "bdc_secure_a", "blob"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := e.Get(ctx, "bdc_secure_a")
	if err != nil || !ok || v != "blob" {
		t.Fatalf("Get = %q, %v, %v; want blob, true, nil", v, ok, err)
	}

	if err := e.Delete(ctx, "bdc_secure_a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := e.Get(ctx, "bdc_secure_a"); ok {
		t.Fatal("Get after Delete reported present")
	}
	if err := e.Delete(ctx, "bdc_secure_a"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestEngine_KeysAndClearRespectPrefix(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	e.Set(ctx, "bdc_secure_a", "1")
	e.Set(ctx, "bdc_secure_b", "2")
	e.Set(ctx, "unrelated", "3")

	keys, err := e.Keys(ctx, "bdc_secure_")
	if err != nil || len(keys) != 2 {
		t.Fatalf("Keys = %v, %v; want 2 namespaced keys", keys, err)
	}

	if err := e.Clear(ctx, "bdc_secure_"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := e.Get(ctx, "unrelated"); !ok {
		t.Fatal("Clear removed a non-namespaced key")
	}
	keys, _ = e.Keys(ctx, "bdc_secure_")
	if len(keys) != 0 {
		t.Fatalf("Keys after Clear = %v, want empty", keys)
	}
}

func TestEngine_Stats(t *testing.T) {
	e := openTestEngine(t)
	ctx := context.Background()

	e.Set(ctx, "ns_k1", "12345")
	e.Set(ctx, "ns_k2", "1")
	e.Set(ctx, "other", "x")

	stats, err := e.Stats(ctx, "ns_")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Items != 2 {
		t.Fatalf("Items = %d, want 2", stats.Items)
	}
	if stats.UsedBytes <= 0 {
		t.Fatalf("UsedBytes = %d, want > 0", stats.UsedBytes)
	}
}

func TestEngine_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	e1, err := Open(DefaultConfig(dir), logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e1.Set(ctx, "k", "persisted"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := e1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e2, err := Open(DefaultConfig(dir), logger.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer e2.Close()

	v, ok, err := e2.Get(ctx, "k")
	if err != nil || !ok || v != "persisted" {
		t.Fatalf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}
