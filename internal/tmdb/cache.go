package tmdb

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// cache is a TTL map for detail lookups, keyed by TMDB ID.
type cache[V any] struct {
	mu      sync.RWMutex
	entries map[int64]cacheEntry[V]
	ttl     time.Duration
}

func newCache[V any](ttl time.Duration) *cache[V] {
	return &cache[V]{
		entries: make(map[int64]cacheEntry[V]),
		ttl:     ttl,
	}
}

func (c *cache[V]) get(tmdbID int64) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	entry, ok := c.entries[tmdbID]
	if !ok {
		return zero, false
	}
	if time.Now().After(entry.expires) {
		return zero, false
	}
	return entry.value, true
}

func (c *cache[V]) set(tmdbID int64, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[tmdbID] = cacheEntry[V]{
		value:   value,
		expires: time.Now().Add(c.ttl),
	}
}
