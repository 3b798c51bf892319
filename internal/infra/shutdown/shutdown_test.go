package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestWait_RunsHooksInReverseOrder(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var mu sync.Mutex
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		h.OnShutdown(func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	h.Trigger()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("hook order = %v, want [3 2 1]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed after Wait")
	}
}

func TestWait_ReturnsLastHookError(t *testing.T) {
	h := NewHandler(5 * time.Second)
	wantErr := errors.New("flush failed")

	h.OnShutdown(func(context.Context) error { return wantErr })
	h.OnShutdown(func(context.Context) error { return nil })

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()
	h.Trigger()

	select {
	case err := <-errCh:
		if !errors.Is(err, wantErr) {
			t.Fatalf("Wait() = %v, want %v", err, wantErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete")
	}
}

func TestTrigger_Idempotent(t *testing.T) {
	h := NewHandler(time.Second)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	h.Trigger()
	h.Trigger()

	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete")
	}
}

func TestOnShutdown_Concurrent(t *testing.T) {
	h := NewHandler(time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Fatalf("hooks = %d, want 10", len(h.hooks))
	}
}
