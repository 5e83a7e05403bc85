// Package xsync collects small concurrency primitives shared across the
// workflow's stages: a bounded-concurrency semaphore and a panic-safe
// goroutine launcher.
package xsync

import "context"

// Limiter is a counting semaphore restricting the number of concurrent
// holders to a fixed maximum.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter creates a Limiter allowing at most max concurrent holders.
// Panics if max <= 0.
func NewLimiter(max int) *Limiter {
	if max <= 0 {
		panic("xsync: limiter max must be > 0")
	}
	return &Limiter{slots: make(chan struct{}, max)}
}

// Acquire blocks until a slot is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot to the limiter.
func (l *Limiter) Release() {
	<-l.slots
}
