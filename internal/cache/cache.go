package cache

import (
	"sync"
	"time"
)

// Cache holds a small fixed set of named TTL entries (statistics,
// recent listings). Entries are process-local, rebuilt lazily on expiry
// or explicit invalidation, never persisted. An instance is injected
// into whatever owns it; there is no package-level state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	// now is swappable for tests.
	now func() time.Time
}

type entry struct {
	mu         sync.Mutex
	ttl        time.Duration
	value      interface{}
	computedAt time.Time
	valid      bool
}

// New creates a cache with the given named entries and their TTLs.
func New(ttls map[string]time.Duration) *Cache {
	entries := make(map[string]*entry, len(ttls))
	for name, ttl := range ttls {
		entries[name] = &entry{ttl: ttl}
	}
	return &Cache{entries: entries, now: time.Now}
}

func (c *Cache) lookup(name string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[name]
}

// Get returns the cached value for name if it is present and fresh.
func (c *Cache) Get(name string) (interface{}, bool) {
	e := c.lookup(name)
	if e == nil {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid || c.now().Sub(e.computedAt) >= e.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores a freshly computed value for name. Unknown names are
// ignored.
func (c *Cache) Set(name string, value interface{}) {
	e := c.lookup(name)
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
	e.computedAt = c.now()
	e.valid = true
}

// Invalidate drops the value for name so the next read recomputes.
func (c *Cache) Invalidate(name string) {
	e := c.lookup(name)
	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = nil
	e.valid = false
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	c.mu.Unlock()

	for _, name := range names {
		c.Invalidate(name)
	}
}

// GetOrCompute returns the cached value for name, recomputing it through
// fn when stale or absent. The per-entry lock is held across the
// recompute, so concurrent readers of one entry compute it once.
func (c *Cache) GetOrCompute(name string, fn func() (interface{}, error)) (interface{}, error) {
	e := c.lookup(name)
	if e == nil {
		return fn()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.valid && c.now().Sub(e.computedAt) < e.ttl {
		return e.value, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}
	e.value = value
	e.computedAt = c.now()
	e.valid = true
	return value, nil
}
