package catalog

import (
	"slices"
	"sync"
	"time"
)

// DefaultTTL is how long a refreshed catalog is served before the next read
// triggers a new refresh.
const DefaultTTL = 6 * time.Hour

// Entry is the cached result of the most recent successful refresh. A zero
// RefreshedAt means the catalog has never been refreshed.
type Entry struct {
	RefreshedAt time.Time
	IDs         []string
}

// Cache holds a single catalog Entry. It is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	entry Entry
	gen   uint64
}

// NewCache returns an empty cache. ttl <= 0 selects DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl}
}

// TTL returns the cache lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Lookup returns the cached ids if the entry is fresh at now. An empty list
// from a successful refresh is a valid hit.
func (c *Cache) Lookup(now time.Time) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry.RefreshedAt.IsZero() || now.Sub(c.entry.RefreshedAt) >= c.ttl {
		return nil, false
	}
	return slices.Clone(c.entry.IDs), true
}

// Generation identifies the current cache epoch. It changes on Invalidate.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Store replaces the entry with ids refreshed at now.
func (c *Cache) Store(ids []string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(ids, now)
}

// StoreIf replaces the entry only if no Invalidate happened since gen was
// read. It reports whether the entry was replaced.
func (c *Cache) StoreIf(gen uint64, ids []string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.store(ids, now)
	return true
}

func (c *Cache) store(ids []string, now time.Time) {
	if ids == nil {
		ids = []string{}
	}
	c.entry = Entry{RefreshedAt: now, IDs: slices.Clone(ids)}
}

// Invalidate resets the cache to never refreshed.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = Entry{}
	c.gen++
}

// Snapshot returns a copy of the current entry.
func (c *Cache) Snapshot() Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Entry{RefreshedAt: c.entry.RefreshedAt, IDs: slices.Clone(c.entry.IDs)}
}
