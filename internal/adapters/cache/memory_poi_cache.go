package cache

import (
	"context"
	"mobility-route-service/internal/domain"
	"sync"
	"time"
)

type poiEntry struct {
	pois     []domain.POI
	storedAt time.Time
}

// MemoryPOICache is a bounded in-process POI cache. Entries expire on lookup
// once older than the TTL; when full, the oldest entry is evicted.
type MemoryPOICache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]poiEntry
}

func NewMemoryPOICache(ttl time.Duration, maxEntries int) *MemoryPOICache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &MemoryPOICache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]poiEntry),
	}
}

func (c *MemoryPOICache) Get(_ context.Context, key string) ([]domain.POI, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]domain.POI(nil), e.pois...), true, nil
}

func (c *MemoryPOICache) Put(_ context.Context, key string, pois []domain.POI) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = poiEntry{pois: append([]domain.POI(nil), pois...), storedAt: c.now()}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryPOICache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryPOICache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.storedAt.Before(oldest) {
			oldestKey, oldest, first = k, e.storedAt, false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
