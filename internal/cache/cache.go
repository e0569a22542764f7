// file: internal/cache/cache.go
// version: 3.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache holds short-lived values that are consumed once, such as OAuth
// states. It is safe for concurrent use.
type Cache[T any] struct {
	mu    sync.Mutex
	items map[string]entry[T]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries live for ttl.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Set stores a value, replacing any previous one under key.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	c.items[key] = entry[T]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Take returns the value and removes it, so a key can be consumed once.
// Expired entries are removed and reported as missing.
func (c *Cache[T]) Take(key string) (T, bool) {
	c.mu.Lock()
	e, ok := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()
	if !ok || c.now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// PurgeExpired drops expired entries and returns how many were removed.
func (c *Cache[T]) PurgeExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}
