package fileio

// limiter.go bounds how many uploads are decoded at once.
//
// Decoding holds the whole file and the resulting table in memory, so the
// server only runs a fixed number of decodes in parallel. A request that
// cannot get a slot within maxWait fails with ErrTooManyUploads.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyUploads is returned when every decode slot stays busy for the full
// wait time. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

const (
	DefaultMaxConcurrentDecodes = 4
	DefaultMaxWaitTime          = 10 * time.Second
)

// Limiter is a weighted semaphore with a bounded wait.
type Limiter struct {
	sem     *semaphore.Weighted
	max     int
	maxWait time.Duration
	active  atomic.Int64
}

// NewLimiter allows at most maxConcurrent decodes. Non-positive arguments
// select the defaults.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentDecodes
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &Limiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     maxConcurrent,
		maxWait: maxWait,
	}
}

// Acquire waits up to maxWait for a slot. The caller must call Release after
// a nil return.
func (l *Limiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		// Distinguish the caller going away from our own wait expiring.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyUploads
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free.
func (l *Limiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// ActiveCount returns the number of decodes in progress.
func (l *Limiter) ActiveCount() int { return int(l.active.Load()) }

// MaxConcurrent returns the slot count.
func (l *Limiter) MaxConcurrent() int { return l.max }

// Available returns the number of free slots.
func (l *Limiter) Available() int { return l.max - l.ActiveCount() }

// WaitForDrain blocks until no decode is running or ctx is done. Used during
// shutdown.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot for the health endpoint.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state.
func (l *Limiter) Status() LimiterStatus {
	active := l.ActiveCount()
	return LimiterStatus{
		Active:        active,
		Available:     l.max - active,
		MaxConcurrent: l.max,
	}
}
