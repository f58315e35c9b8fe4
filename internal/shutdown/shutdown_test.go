package shutdown

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRegisterAccumulates(t *testing.T) {
	h := New(5 * time.Second)
	if h.IsShuttingDown() {
		t.Error("fresh handler should not report shutting down")
	}

	noop := func(ctx context.Context) error { return nil }
	h.Register(noop)
	h.Register(noop)

	if got := len(h.shutdownFuncs); got != 2 {
		t.Errorf("registered 2 cleanup functions, handler holds %d", got)
	}
}

func TestShutdownRunsEveryCleanup(t *testing.T) {
	h := New(5 * time.Second)

	var calls int32
	for i := 0; i < 3; i++ {
		h.Register(func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 cleanup calls, got %d", got)
	}
	if !h.IsShuttingDown() {
		t.Error("handler should report shutting down after Shutdown")
	}
}

func TestShutdownRunsEachCleanupOnce(t *testing.T) {
	h := New(5 * time.Second)

	var mu sync.Mutex
	seen := make(map[int]int)
	for i := 1; i <= 3; i++ {
		id := i
		h.Register(func(ctx context.Context) error {
			mu.Lock()
			seen[id]++
			mu.Unlock()
			return nil
		})
	}

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if seen[i] != 1 {
			t.Errorf("cleanup %d ran %d times", i, seen[i])
		}
	}
}

func TestShutdownSurfacesCleanupError(t *testing.T) {
	h := New(5 * time.Second)

	failure := errors.New("connection pool did not drain")
	h.Register(func(ctx context.Context) error { return failure })

	if err := h.Shutdown(); !errors.Is(err, failure) {
		t.Errorf("expected %v, got %v", failure, err)
	}
}

func TestShutdownTimesOutSlowCleanup(t *testing.T) {
	h := New(100 * time.Millisecond)

	h.Register(func(ctx context.Context) error {
		time.Sleep(500 * time.Millisecond)
		return nil
	})

	if err := h.Shutdown(); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	h := New(5 * time.Second)

	var calls int32
	h.Register(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}
	if err := h.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("cleanup ran %d times across repeated Shutdown calls", got)
	}
}

func TestShutdownChanClosesOnShutdown(t *testing.T) {
	h := New(5 * time.Second)
	ch := h.ShutdownChan()

	select {
	case <-ch:
		t.Fatal("shutdown channel closed before Shutdown")
	default:
	}

	h.Shutdown()

	select {
	case <-ch:
	case <-time.After(100 * time.Millisecond):
		t.Error("shutdown channel still open after Shutdown")
	}
}

func TestTriggerShutdownUnblocksWait(t *testing.T) {
	h := New(5 * time.Second)

	done := make(chan struct{})
	go func() {
		h.Wait()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	h.TriggerShutdown()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("Wait did not return after TriggerShutdown")
	}
}

func TestCleanupsRunConcurrently(t *testing.T) {
	h := New(5 * time.Second)

	var calls int32
	for i := 0; i < 10; i++ {
		h.Register(func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			time.Sleep(10 * time.Millisecond)
			return nil
		})
	}

	start := time.Now()
	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	elapsed := time.Since(start)

	if got := atomic.LoadInt32(&calls); got != 10 {
		t.Errorf("expected 10 cleanup calls, got %d", got)
	}
	// Sequential execution would take ~100ms.
	if elapsed > 100*time.Millisecond {
		t.Errorf("cleanups appear serialized: took %v", elapsed)
	}
}
