// Package cache provides an in-memory TTL cache with background cleanup.
package cache

import (
	"sync"
	"time"
)

// TTLCache is an in-memory cache whose entries expire after a fixed TTL.
// With sliding expiry every hit pushes the deadline back, which suits idle timeouts.
type TTLCache[V any] struct {
	ttl     time.Duration
	sliding bool
	onEvict func(key string, value V)
	now     func() time.Time

	mu    sync.RWMutex
	items map[string]cacheItem[V]

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// Option configures a TTLCache
type Option[V any] func(*TTLCache[V])

// WithSlidingExpiry refreshes an entry's deadline on every Get
func WithSlidingExpiry[V any]() Option[V] {
	return func(c *TTLCache[V]) { c.sliding = true }
}

// WithEvictionCallback is invoked for entries removed by expiry or Delete
func WithEvictionCallback[V any](fn func(key string, value V)) Option[V] {
	return func(c *TTLCache[V]) { c.onEvict = fn }
}

// WithClock overrides the time source
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLCache[V]) { c.now = now }
}

// New creates a new TTL cache
func New[V any](ttl time.Duration, opts ...Option[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cacheItem[V]),
		stop:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartCleanup removes expired entries every interval until Close
func (c *TTLCache[V]) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.CleanupExpired()
			}
		}
	}()
}

// Close stops the cleanup goroutine
func (c *TTLCache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Get retrieves a live value
func (c *TTLCache[V]) Get(key string) (V, bool) {
	if c.sliding {
		c.mu.Lock()
		defer c.mu.Unlock()
	} else {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}

	var zero V
	item, exists := c.items[key]
	if !exists {
		return zero, false
	}

	now := c.now()
	if now.After(item.expiresAt) {
		return zero, false
	}
	if c.sliding {
		item.expiresAt = now.Add(c.ttl)
		c.items[key] = item
	}
	return item.value, true
}

// Set stores a value with the cache TTL
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// GetOrCreate returns the live value for key or stores the one built by create
func (c *TTLCache[V]) GetOrCreate(key string, create func() V) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, false
	}

	c.mu.Lock()
	now := c.now()
	item, exists := c.items[key]
	if exists && !now.After(item.expiresAt) {
		c.mu.Unlock()
		return item.value, false
	}
	v := create()
	c.items[key] = cacheItem[V]{value: v, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	// the replaced entry expired without being cleaned up yet
	if exists && c.onEvict != nil {
		c.onEvict(key, item.value)
	}
	return v, true
}

// Delete removes a value
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	item, exists := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if exists && c.onEvict != nil {
		c.onEvict(key, item.value)
	}
}

// Len returns the number of stored entries, expired or not
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// CleanupExpired removes expired entries and returns how many were dropped
func (c *TTLCache[V]) CleanupExpired() int {
	c.mu.Lock()
	now := c.now()
	evicted := make(map[string]V)
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			evicted[key] = item.value
			delete(c.items, key)
		}
	}
	c.mu.Unlock()

	if c.onEvict != nil {
		for key, v := range evicted {
			c.onEvict(key, v)
		}
	}
	return len(evicted)
}
