package fileio

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	limiter := NewLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Available(); got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := limiter.Available(); got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	limiter.Release()
	limiter.Release()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
}

func TestLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewLimiter(1, 100*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)
	elapsed := time.Since(start)

	if err != ErrTooManyUploads {
		t.Errorf("expected ErrTooManyUploads, got %v", err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timeout too fast: %v", elapsed)
	}
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewLimiter(maxConcurrent, time.Second)

	var wg sync.WaitGroup
	var inFlight, maxObserved atomic.Int64

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer limiter.Release()

			n := inFlight.Add(1)
			for {
				old := maxObserved.Load()
				if n <= old || maxObserved.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	if got := maxObserved.Load(); got > maxConcurrent {
		t.Errorf("exceeded max concurrent: observed %d, max %d", got, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestLimiter_TryAcquire(t *testing.T) {
	limiter := NewLimiter(1, time.Second)

	if !limiter.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if limiter.TryAcquire() {
		t.Error("second TryAcquire should fail")
	}
	limiter.Release()

	if !limiter.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
	limiter.Release()
}

func TestLimiter_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(1, 5*time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- limiter.Acquire(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Acquire did not return after cancellation")
	}
}

func TestLimiter_WaitForDrain(t *testing.T) {
	limiter := NewLimiter(2, time.Second)
	ctx := context.Background()
	_ = limiter.Acquire(ctx)
	_ = limiter.Acquire(ctx)

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned with active decodes")
	case <-time.After(60 * time.Millisecond):
	}

	limiter.Release()
	limiter.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForDrain did not complete after release")
	}
}

func TestLimiter_WaitForDrainCancelled(t *testing.T) {
	limiter := NewLimiter(1, time.Second)
	_ = limiter.Acquire(context.Background())
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestLimiter_StatusAndDefaults(t *testing.T) {
	limiter := NewLimiter(3, time.Second)
	_ = limiter.Acquire(context.Background())

	status := limiter.Status()
	if status.Active != 1 || status.Available != 2 || status.MaxConcurrent != 3 {
		t.Errorf("Status = %+v, want {1 2 3}", status)
	}
	limiter.Release()

	if got := NewLimiter(0, 0).MaxConcurrent(); got != DefaultMaxConcurrentDecodes {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentDecodes)
	}
}
