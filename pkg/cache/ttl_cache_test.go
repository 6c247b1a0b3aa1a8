package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTTLCache_Expiry(t *testing.T) {
	clock := newClock()
	c := New[string](time.Minute, WithClock[string](clock.Now))

	c.Set("a", "value")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.CleanupExpired())
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_SlidingExpiry(t *testing.T) {
	clock := newClock()
	c := New[int](time.Minute, WithClock[int](clock.Now), WithSlidingExpiry[int]())

	c.Set("s", 1)
	for i := 0; i < 3; i++ {
		clock.Advance(45 * time.Second)
		_, ok := c.Get("s")
		assert.True(t, ok, "hit %d should keep the entry alive", i)
	}

	clock.Advance(61 * time.Second)
	_, ok := c.Get("s")
	assert.False(t, ok)
}

func TestTTLCache_GetOrCreateAndEviction(t *testing.T) {
	clock := newClock()
	var evicted []string
	c := New[int](time.Minute,
		WithClock[int](clock.Now),
		WithEvictionCallback[int](func(key string, _ int) { evicted = append(evicted, key) }),
	)

	v, created := c.GetOrCreate("k", func() int { return 7 })
	assert.True(t, created)
	assert.Equal(t, 7, v)

	v, created = c.GetOrCreate("k", func() int { return 8 })
	assert.False(t, created)
	assert.Equal(t, 7, v)

	c.Delete("k")
	c.Set("old", 1)
	clock.Advance(2 * time.Minute)
	c.CleanupExpired()

	assert.Equal(t, []string{"k", "old"}, evicted)

	c.Set("stale", 1)
	clock.Advance(2 * time.Minute)
	v, created = c.GetOrCreate("stale", func() int { return 2 })
	assert.True(t, created)
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"k", "old", "stale"}, evicted)
}

func TestTTLCache_CloseIsIdempotent(t *testing.T) {
	c := New[int](time.Minute)
	c.StartCleanup(time.Millisecond)
	c.Close()
	c.Close()
}
