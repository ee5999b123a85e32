package pattern

import (
	"regexp"
	"sync"
)

// cacheMaxSize is the maximum number of compiled expressions retained.
const cacheMaxSize = 1000

// cacheEntry holds a compiled regex and its access order for LRU eviction.
type cacheEntry struct {
	regex       *regexp.Regexp
	accessOrder int64
}

// regexCache is a bounded LRU cache for compiled regular expressions,
// shared by every router in the process. Templates repeat heavily
// across routers built from the same configuration.
type regexCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	counter int64
}

var sharedCache = &regexCache{entries: make(map[string]*cacheEntry)}

// compileCached compiles src, reusing a previously compiled expression
// when available.
func compileCached(src string) (*regexp.Regexp, error) {
	return sharedCache.compile(src)
}

func (c *regexCache) compile(src string) (*regexp.Regexp, error) {
	metrics := getCompilerMetrics()

	c.mu.Lock()
	if entry, ok := c.entries[src]; ok {
		c.counter++
		entry.accessOrder = c.counter
		c.mu.Unlock()

		metrics.cacheHits.Inc()
		return entry.regex, nil
	}
	c.mu.Unlock()

	metrics.cacheMisses.Inc()

	// Compile outside the lock (expensive operation).
	regex, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have compiled the same source meanwhile.
	if entry, ok := c.entries[src]; ok {
		c.counter++
		entry.accessOrder = c.counter
		return entry.regex, nil
	}

	if len(c.entries) >= cacheMaxSize {
		c.evictLRU()
		metrics.cacheEvictions.Inc()
	}

	c.counter++
	c.entries[src] = &cacheEntry{regex: regex, accessOrder: c.counter}
	metrics.cacheSize.Set(float64(len(c.entries)))

	return regex, nil
}

// evictLRU removes the least recently used entry. Must be called with
// the cache lock held.
func (c *regexCache) evictLRU() {
	var lruKey string
	var lruOrder int64 = -1

	for key, entry := range c.entries {
		if lruOrder == -1 || entry.accessOrder < lruOrder {
			lruOrder = entry.accessOrder
			lruKey = key
		}
	}

	if lruKey != "" {
		delete(c.entries, lruKey)
	}
}
