package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry holds a value and its expiry deadline.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryCache is an in-process Cache with TTL expiry and a background
// janitor. Suitable for single-instance deployments and tests.
type memoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	stopCh     chan struct{}
	closeOnce  sync.Once
}

// NewMemoryCache creates an in-memory cache. Expired entries are
// swept every cleanupInterval; a non-positive interval disables the
// janitor and expiry is enforced lazily on Get.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) Cache {
	c := &memoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: defaultTTL,
		stopCh:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	}

	return c
}

// Get implements Cache.
func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m := getCacheMetrics()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		m.misses.WithLabelValues(backendMemory).Inc()
		return nil, ErrCacheMiss
	}

	m.hits.WithLabelValues(backendMemory).Inc()
	return entry.value, nil
}

// Set implements Cache.
func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()

	getCacheMetrics().sets.WithLabelValues(backendMemory).Inc()
	return nil
}

// Delete implements Cache.
func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Close stops the janitor.
func (c *memoryCache) Close() error {
	c.closeOnce.Do(func() { close(c.stopCh) })
	return nil
}

// janitor periodically removes expired entries.
func (c *memoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
