package store

import (
	"context"
	"testing"
	"time"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
)

func TestSweep_RemovesExpired(t *testing.T) {
	s, persistent, _ := newTestStore(t)
	ctx := context.Background()

	s.SetItem(ctx, "short", "v", domain.Options{TTL: 20 * time.Millisecond})
	s.SetItem(ctx, "long", "v", domain.Options{TTL: time.Hour})
	s.SetItem(ctx, "forever", "v", domain.Options{})

	time.Sleep(50 * time.Millisecond)

	if removed := s.Sweep(ctx); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}

	if _, ok, _ := persistent.Get(ctx, domain.DefaultNamespace+"short"); ok {
		t.Fatal("expired record survived sweep")
	}
	if s.GetItem(ctx, "long", domain.Options{}) != "v" {
		t.Fatal("live record removed by sweep")
	}
	if s.GetItem(ctx, "forever", domain.Options{}) != "v" {
		t.Fatal("record without expiry removed by sweep")
	}
}

func TestSweep_SelfHealsCorruptRecords(t *testing.T) {
	s, persistent, _ := newTestStore(t)
	ctx := context.Background()

	persistent.Set(ctx, domain.DefaultNamespace+"garbage", "!!!not a blob!!!")

	if removed := s.Sweep(ctx); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
	if _, ok, _ := persistent.Get(ctx, domain.DefaultNamespace+"garbage"); ok {
		t.Fatal("corrupt record survived sweep")
	}
}

func TestSweep_SparesReservedAndUnrelatedKeys(t *testing.T) {
	s, persistent, session := newTestStore(t)
	ctx := context.Background()

	// Force key initialization so the key material entry exists.
	s.SetItem(ctx, "warm", "v", domain.Options{})
	persistent.Set(ctx, "unrelated", "raw")

	s.Sweep(ctx)

	if _, ok, _ := session.Get(ctx, domain.DefaultNamespace+domain.KeyMaterialSuffix); !ok {
		t.Fatal("sweep deleted the key material entry")
	}
	if _, ok, _ := persistent.Get(ctx, "unrelated"); !ok {
		t.Fatal("sweep deleted a non-namespaced key")
	}
	// The key still works afterwards.
	if s.GetItem(ctx, "warm", domain.Options{}) != "v" {
		t.Fatal("record unreadable after sweep")
	}
}

func TestSweep_ReapsUserKeyWithReservedLookingName(t *testing.T) {
	s, persistent, session := newTestStore(t)
	ctx := context.Background()

	// A user record whose logical key ends in a reserved suffix is
	// still an ordinary record and must not dodge the reaper.
	s.SetItem(ctx, "backup__key_material", "v", domain.Options{TTL: 10 * time.Millisecond})
	time.Sleep(30 * time.Millisecond)

	if removed := s.Sweep(ctx); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
	if _, ok, _ := persistent.Get(ctx, domain.DefaultNamespace+"backup__key_material"); ok {
		t.Fatal("expired record with reserved-looking name survived sweep")
	}
	// The real bookkeeping entry stays.
	if _, ok, _ := session.Get(ctx, domain.DefaultNamespace+domain.KeyMaterialSuffix); !ok {
		t.Fatal("sweep deleted the key material entry")
	}
}

func TestStart_RunsInitialSweep(t *testing.T) {
	s, persistent, _ := newTestStore(t)
	ctx := context.Background()

	s.SetItem(ctx, "stale", "v", domain.Options{TTL: 10 * time.Millisecond})
	time.Sleep(30 * time.Millisecond)

	s.Start(ctx)
	defer s.Close()

	if _, ok, _ := persistent.Get(ctx, domain.DefaultNamespace+"stale"); ok {
		t.Fatal("initial sweep did not run")
	}
}
