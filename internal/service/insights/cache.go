package insights

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL cache with singleflight coalescing: concurrent misses for
// the same key trigger a single upstream fetch.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	group   singleflight.Group

	now func() time.Time
}

// NewCache creates a cache with the given entry TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached value for key, fetching and storing it on a
// miss. Fetch errors are not cached.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another caller may have filled the entry while we waited.
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.now().Before(entry.expiresAt) {
			return entry.value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return value, nil
	})
	return value, err
}

// Invalidate drops a cached entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
