package store

import (
	"context"
	"testing"

	"github.com/bdc-labs/securestore-go/internal/core/domain"
	"github.com/bdc-labs/securestore-go/internal/keyring"
	"github.com/bdc-labs/securestore-go/internal/storage/memkv"
	"github.com/bdc-labs/securestore-go/internal/telemetry/logger"
)

func TestIsSecure_RealKey(t *testing.T) {
	persistent := memkv.New()
	session := memkv.New()
	keys := keyring.New(keyring.Config{}, nil, session, persistent, logger.Nop())
	s := New(Config{SweepInterval: -1, TransportSecure: true}, persistent, session, keys, logger.Nop(), nil)

	sec := s.IsSecure(context.Background())
	if !sec.Available || !sec.Transport || !sec.Encrypted || !sec.Secure {
		t.Fatalf("IsSecure = %+v, want all true", sec)
	}
}

func TestIsSecure_FallbackAndInsecureTransport(t *testing.T) {
	persistent := memkv.New()
	session := memkv.New()
	keys := keyring.New(keyring.Config{}, unavailableProvider{}, session, persistent, logger.Nop())
	s := New(Config{SweepInterval: -1}, persistent, session, keys, logger.Nop(), nil)

	sec := s.IsSecure(context.Background())
	if !sec.Available {
		t.Fatal("writable backend reported unavailable")
	}
	if sec.Transport || sec.Encrypted || sec.Secure {
		t.Fatalf("IsSecure = %+v, want transport/encrypted/secure false", sec)
	}
}

func TestIsSecure_ClosedBackend(t *testing.T) {
	persistent := memkv.New()
	session := memkv.New()
	keys := keyring.New(keyring.Config{}, nil, session, persistent, logger.Nop())
	s := New(Config{SweepInterval: -1}, persistent, session, keys, logger.Nop(), nil)

	persistent.Close()
	if sec := s.IsSecure(context.Background()); sec.Available {
		t.Fatal("closed backend reported available")
	}
}

func TestInfo_CountsNamespacedRecords(t *testing.T) {
	s, persistent, _ := newTestStore(t)
	ctx := context.Background()

	s.SetItem(ctx, "a", "1", domain.Options{})
	s.SetItem(ctx, "b", "22", domain.Options{})
	s.SetItem(ctx, "c", "3", domain.Options{Sensitive: true})
	persistent.Set(ctx, "unrelated", "x")

	info := s.Info(ctx)
	if info.Persistent.Items != 2 {
		t.Fatalf("Persistent.Items = %d, want 2", info.Persistent.Items)
	}
	// Session holds the record plus the key material entry.
	if info.Session.Items < 1 {
		t.Fatalf("Session.Items = %d, want >= 1", info.Session.Items)
	}
	if info.Persistent.Used <= 0 || info.Session.Used <= 0 {
		t.Fatalf("Used sizes = %+v, want > 0", info)
	}

	// Info must not mutate state.
	if s.GetItem(ctx, "a", domain.Options{}) != "1" {
		t.Fatal("Info mutated stored records")
	}
}
