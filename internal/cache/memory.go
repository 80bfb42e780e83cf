package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MaxMemoryEntryBytes bounds a single in-process entry. Larger page bodies
// are left to the slower layers.
const MaxMemoryEntryBytes = 8 << 20

// MemoryCache keeps page bodies in process with per-entry expiry
type MemoryCache struct {
	items  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports lookups served and missed since creation
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewMemoryCache creates a memory cache; expired entries are swept every cleanupInterval
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.items.Get(key); found {
		if body, ok := val.([]byte); ok {
			c.hits.Add(1)
			return body, true
		}
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores a copy of value. A zero ttl uses the default; oversized
// values are dropped silently.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if len(value) > MaxMemoryEntryBytes {
		c.items.Delete(key)
		return nil
	}
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.items.Flush()
	return nil
}

// Stats returns the hit and miss counters
func (c *MemoryCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.items.ItemCount(),
	}
}
