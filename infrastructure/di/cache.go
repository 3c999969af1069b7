package di

import (
	"context"
	"sync"
	"time"
)

// InMemoryCache provides a simple in-memory cache implementation
type InMemoryCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	// versions counts invalidations per key; entries survive expiry
	versions map[string]uint64
	stop     chan struct{}
	once     sync.Once
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache that evicts expired
// entries every cleanupInterval until Stop is called
func NewInMemoryCache(cleanupInterval time.Duration) *InMemoryCache {
	cache := &InMemoryCache{
		items:    make(map[string]cacheItem),
		versions: make(map[string]uint64),
		stop:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go cache.cleanupExpired(cleanupInterval)
	}

	return cache
}

// Get retrieves a value from cache
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiresAt) {
		return nil, false
	}

	return item.value, true
}

// Set stores a value in cache with TTL in seconds
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(time.Duration(ttl) * time.Second),
	}

	return nil
}

// Version returns how many times key has been deleted
func (c *InMemoryCache) Version(ctx context.Context, key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.versions[key]
}

// SetIfVersion stores a value only if key has not been deleted since version
// was read. It reports whether the value was stored.
func (c *InMemoryCache) SetIfVersion(ctx context.Context, key string, value interface{}, ttl int, version uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.versions[key] != version {
		return false, nil
	}
	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(time.Duration(ttl) * time.Second),
	}

	return true, nil
}

// Delete removes a value from cache and moves the key to a new version
func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	c.versions[key]++
	return nil
}

// Stop ends the cleanup goroutine
func (c *InMemoryCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// cleanupExpired periodically removes expired items
func (c *InMemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
