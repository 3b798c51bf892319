package dirkv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_SetGetDelete(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()

	if err := s.Set(ctx, "bdc_secure_profile", "blob"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := s.Get(ctx, "bdc_secure_profile")
	if err != nil || !ok || v != "blob" {
		t.Fatalf("Get = %q, %v, %v; want blob, true, nil", v, ok, err)
	}

	if err := s.Delete(ctx, "bdc_secure_profile"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "bdc_secure_profile"); ok {
		t.Fatal("Get after Delete reported present")
	}
	if err := s.Delete(ctx, "bdc_secure_profile"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, _ := Open(dir)
	if err := s1.Set(ctx, "k", "persisted"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s1.Close()

	s2, _ := Open(dir)
	v, ok, err := s2.Get(ctx, "k")
	if err != nil || !ok || v != "persisted" {
		t.Fatalf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestStore_KeysAndClearRespectPrefix(t *testing.T) {
	s, _ := Open(t.TempDir())
	ctx := context.Background()

	s.Set(ctx, "bdc_secure_a", "1")
	s.Set(ctx, "bdc_secure_b", "2")
	s.Set(ctx, "unrelated", "3")

	keys, err := s.Keys(ctx, "bdc_secure_")
	if err != nil || len(keys) != 2 {
		t.Fatalf("Keys = %v, %v; want 2 namespaced keys", keys, err)
	}

	if err := s.Clear(ctx, "bdc_secure_"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "unrelated"); !ok {
		t.Fatal("Clear removed a non-namespaced key")
	}
}

func TestStore_KeyEscaping(t *testing.T) {
	s, _ := Open(t.TempDir())
	ctx := context.Background()

	key := "bdc_secure_path/../weird key"
	if err := s.Set(ctx, key, "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, _ := s.Get(ctx, key)
	if !ok || v != "v" {
		t.Fatalf("Get escaped key = %q, %v", v, ok)
	}

	keys, _ := s.Keys(ctx, "bdc_secure_")
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("Keys = %v, want [%q]", keys, key)
	}
}

func TestFileKey(t *testing.T) {
	if _, ok := FileKey("not-a-record.txt"); ok {
		t.Fatal("FileKey accepted a non-record file")
	}
	key, ok := FileKey(fileName("bdc_secure_auth_token"))
	if !ok || key != "bdc_secure_auth_token" {
		t.Fatalf("FileKey = %q, %v", key, ok)
	}
}

func TestStore_OwnMutation(t *testing.T) {
	s, _ := Open(t.TempDir())
	ctx := context.Background()

	s.Set(ctx, "bdc_secure_mine", "v")
	if !s.OwnMutation(fileName("bdc_secure_mine")) {
		t.Fatal("own write not tracked")
	}
	if s.OwnMutation(fileName("bdc_secure_other")) {
		t.Fatal("foreign file reported as own mutation")
	}
}

func TestStore_Stats(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir)
	ctx := context.Background()

	s.Set(ctx, "ns_k", "12345")
	stats, err := s.Stats(ctx, "ns_")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Items != 1 || stats.UsedBytes != int64(len("ns_k")+5) {
		t.Fatalf("Stats = %+v", stats)
	}

	// A stray non-record file is not counted.
	os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o600)
	stats, _ = s.Stats(ctx, "ns_")
	if stats.Items != 1 {
		t.Fatalf("Items with stray file = %d, want 1", stats.Items)
	}
}
