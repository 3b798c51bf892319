package cmap

import (
	"fmt"
	"sync"
	"testing"
)

func TestMap_SetGetDelete(t *testing.T) {
	m := New[int]()

	m.Set("a", 1)
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	m.Set("a", 2)
	if v, _ := m.Get("a"); v != 2 {
		t.Fatalf("Get(a) after overwrite = %d, want 2", v)
	}

	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Fatal("Get(a) after delete reported present")
	}

	// Idempotent delete
	m.Delete("a")
}

func TestMap_CountAndKeys(t *testing.T) {
	m := New[string]()
	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("k%d", i), "v")
	}
	if m.Count() != 100 {
		t.Fatalf("Count = %d, want 100", m.Count())
	}
	if len(m.Keys()) != 100 {
		t.Fatalf("len(Keys) = %d, want 100", len(m.Keys()))
	}
}

func TestMap_Clear(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Clear()
	if m.Count() != 0 {
		t.Fatalf("Count after Clear = %d, want 0", m.Count())
	}
}

func TestMap_RangeStop(t *testing.T) {
	m := New[int]()
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("k%d", i), i)
	}
	seen := 0
	m.Range(func(string, int) bool {
		seen++
		return seen < 3
	})
	if seen != 3 {
		t.Fatalf("Range visited %d entries after stop, want 3", seen)
	}
}

func TestMap_ConcurrentAccess(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d-%d", g, i)
				m.Set(key, i)
				m.Get(key)
				if i%3 == 0 {
					m.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestNewWithShards_InvalidFallsBack(t *testing.T) {
	m := NewWithShards[int](7)
	if len(m.shards) != DefaultShardCount {
		t.Fatalf("shards = %d, want %d", len(m.shards), DefaultShardCount)
	}
}
