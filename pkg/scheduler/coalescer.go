// Package scheduler rate-limits high frequency updates to one application per frame.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Coalescer applies at most one value per tick, always the most recent one submitted.
// Intermediate values submitted between ticks are dropped.
type Coalescer[T any] struct {
	interval time.Duration
	apply    func(T)

	// applyMu spans taking the pending value and applying it, so applies land in submit order
	applyMu sync.Mutex

	mu      sync.Mutex
	pending T
	dirty   bool
	applied uint64
}

// NewCoalescer creates a coalescer that hands the latest value to apply every interval
func NewCoalescer[T any](interval time.Duration, apply func(T)) *Coalescer[T] {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Coalescer[T]{interval: interval, apply: apply}
}

// Submit records v as the latest pending value
func (c *Coalescer[T]) Submit(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = v
	c.dirty = true
}

// Pending reports whether a value is waiting for the next tick
func (c *Coalescer[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Applied returns how many values have been applied so far
func (c *Coalescer[T]) Applied() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

// Flush applies the pending value now, if any
func (c *Coalescer[T]) Flush() bool {
	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return false
	}
	v := c.pending
	var zero T
	c.pending = zero
	c.dirty = false
	c.applied++
	c.mu.Unlock()

	c.apply(v)
	return true
}

// Run flushes once per interval until ctx is done
func (c *Coalescer[T]) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Flush()
		}
	}
}
