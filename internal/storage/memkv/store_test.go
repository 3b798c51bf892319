package memkv

import (
	"context"
	"errors"
	"testing"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Set(ctx, "bdc_secure_a", "blob"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := s.Get(ctx, "bdc_secure_a")
	if err != nil || !ok || v != "blob" {
		t.Fatalf("Get = %q, %v, %v; want blob, true, nil", v, ok, err)
	}

	if err := s.Delete(ctx, "bdc_secure_a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "bdc_secure_a"); ok {
		t.Fatal("Get after Delete reported present")
	}

	// Idempotent delete
	if err := s.Delete(ctx, "bdc_secure_a"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestStore_ClearRespectsPrefix(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Set(ctx, "bdc_secure_a", "1")
	s.Set(ctx, "bdc_secure_b", "2")
	s.Set(ctx, "unrelated", "3")

	if err := s.Clear(ctx, "bdc_secure_"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	keys, err := s.Keys(ctx, "bdc_secure_")
	if err != nil || len(keys) != 0 {
		t.Fatalf("Keys after Clear = %v, %v; want empty", keys, err)
	}
	if _, ok, _ := s.Get(ctx, "unrelated"); !ok {
		t.Fatal("Clear removed a non-namespaced key")
	}
}

func TestStore_Stats(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Set(ctx, "ns_k1", "12345")
	s.Set(ctx, "ns_k2", "1")
	s.Set(ctx, "other", "xxxxxxxx")

	stats, err := s.Stats(ctx, "ns_")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Items != 2 {
		t.Fatalf("Items = %d, want 2", stats.Items)
	}
	want := int64(len("ns_k1") + 5 + len("ns_k2") + 1)
	if stats.UsedBytes != want {
		t.Fatalf("UsedBytes = %d, want %d", stats.UsedBytes, want)
	}
}

func TestStore_CloseWipes(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Set(ctx, "k", "v")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, _, err := s.Get(ctx, "k"); !errors.Is(err, domain.ErrStorageClosed) {
		t.Fatalf("Get after Close err = %v, want ErrStorageClosed", err)
	}
	if err := s.Set(ctx, "k2", "v"); !errors.Is(err, domain.ErrStorageClosed) {
		t.Fatalf("Set after Close err = %v, want ErrStorageClosed", err)
	}
}
