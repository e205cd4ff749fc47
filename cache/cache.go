// Package cache provides a bounded in-memory TTL cache used to memoize
// expensive reads. It is a process-local optimization layer: a miss simply
// re-executes the underlying read, so correctness never depends on it.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the cache when no explicit capacity is given.
const DefaultMaxEntries = 500

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a mutex-guarded key/value store with per-entry expiry and a hard
// capacity. When full it purges expired entries first, then evicts the single
// oldest-inserted entry (insertion order, not LRU).
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]entry
	order      []string // insertion order, oldest first
	now        func() time.Time
}

// New creates a cache holding at most maxEntries entries. Non-positive
// maxEntries falls back to DefaultMaxEntries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		maxEntries: maxEntries,
		entries:    make(map[string]entry),
		order:      make([]string, 0, maxEntries),
		now:        time.Now,
	}
}

// Set inserts or overwrites an entry expiring ttl from now. Overwriting keeps
// the key's original insertion position. Never fails.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxEntries {
			c.purgeExpiredLocked()
		}
		if len(c.entries) >= c.maxEntries {
			c.evictOldestLocked()
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Get returns the value for key if present and not expired. An expired entry
// is deleted on observation and reported absent.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.removeLocked(key)
		return nil, false
	}
	return e.value, true
}

// Has reports whether key is present and not expired, expiring it as Get does.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = c.order[:0]
}

// Len reports the number of stored entries, expired ones included until they
// are observed or swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes all currently-expired entries and reports how many it dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeExpiredLocked()
}

// Janitor sweeps expired entries every interval until ctx is done. It always
// returns nil so it can run directly under an errgroup.
func (c *Cache) Janitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Sweep()
		}
	}
}

func (c *Cache) purgeExpiredLocked() int {
	now := c.now()
	removed := 0
	kept := c.order[:0]
	for _, key := range c.order {
		e, ok := c.entries[key]
		if !ok {
			continue
		}
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
	return removed
}

func (c *Cache) evictOldestLocked() {
	for len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if _, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)
			return
		}
	}
}

func (c *Cache) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
