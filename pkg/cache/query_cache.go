package cache

import (
	"context"
	"time"
)

// QueryCache stores query results for the query bus caching middleware
type QueryCache struct {
	entries *TTLCache[interface{}]
}

// NewQueryCache creates a query cache whose entries live for ttl
func NewQueryCache(ttl time.Duration) *QueryCache {
	c := &QueryCache{entries: New[interface{}](ttl)}
	c.entries.StartCleanup(ttl)
	return c
}

// Get returns a cached result
func (c *QueryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.entries.Get(key)
}

// Set caches a result
func (c *QueryCache) Set(_ context.Context, key string, value interface{}) {
	c.entries.Set(key, value)
}

// Close stops background cleanup
func (c *QueryCache) Close() {
	c.entries.Close()
}
