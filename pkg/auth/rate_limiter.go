package auth

import (
	"sync"
	"time"
)

// TokenBucketLimiter implements token bucket rate limiting per key
type TokenBucketLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	maxTokens float64
	perSecond float64
	idleAfter time.Duration
	now       func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewTokenBucketLimiter allows bursts of maxTokens refilled at perMinute tokens a minute
func NewTokenBucketLimiter(maxTokens, perMinute int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		buckets:   make(map[string]*bucket),
		maxTokens: float64(maxTokens),
		perSecond: float64(perMinute) / 60,
		idleAfter: time.Hour,
		now:       time.Now,
	}
}

// Allow takes a token for key if one is available
func (l *TokenBucketLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.maxTokens, lastSeen: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * l.perSecond
	if b.tokens > l.maxTokens {
		b.tokens = l.maxTokens
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Reset forgets the bucket of key
func (l *TokenBucketLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Prune drops buckets idle for longer than an hour and returns how many were removed
func (l *TokenBucketLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleAfter {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}
