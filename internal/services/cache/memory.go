package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called without a TTL
const DefaultTTL = 30 * time.Minute

type entry struct {
	value  []byte
	expiry time.Time
}

// MemoryCache is a bounded in-process cache. Expired entries are dropped
// when read or when room is needed.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]entry
	maxEntries int
	now        func() time.Time
	stats      Stats
}

// MemoryOption configures a MemoryCache
type MemoryOption func(*MemoryCache)

// WithClock sets the time source used for expiry
func WithClock(now func() time.Time) MemoryOption {
	return func(mc *MemoryCache) { mc.now = now }
}

// NewMemoryCache creates a cache holding at most maxEntries values.
// maxEntries <= 0 means unbounded.
func NewMemoryCache(maxEntries int, opts ...MemoryOption) *MemoryCache {
	mc := &MemoryCache{
		items:      make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, ok := mc.items[key]
	if ok && !mc.now().Before(item.expiry) {
		delete(mc.items, key)
		mc.stats.Evictions++
		ok = false
	}
	if !ok {
		mc.stats.Misses++
		return nil, false
	}
	mc.stats.Hits++
	return item.value, true
}

// Set stores a value in the cache with a TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.items[key]; !exists {
		mc.makeRoomLocked()
	}
	mc.items[key] = entry{value: value, expiry: mc.now().Add(ttl)}
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.items, key)
	mc.mu.Unlock()
	return nil
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() Stats {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	stats := mc.stats
	stats.Entries = len(mc.items)
	return stats
}

// makeRoomLocked drops expired entries, then the entry closest to expiry
func (mc *MemoryCache) makeRoomLocked() {
	if mc.maxEntries <= 0 || len(mc.items) < mc.maxEntries {
		return
	}

	now := mc.now()
	for key, item := range mc.items {
		if !now.Before(item.expiry) {
			delete(mc.items, key)
			mc.stats.Evictions++
		}
	}

	for len(mc.items) >= mc.maxEntries {
		var oldestKey string
		var oldest time.Time
		for key, item := range mc.items {
			if oldestKey == "" || item.expiry.Before(oldest) {
				oldestKey, oldest = key, item.expiry
			}
		}
		delete(mc.items, oldestKey)
		mc.stats.Evictions++
	}
}
