package shaderinfo

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultCacheCapacity is the number of sources a Cache keeps when
// NewCache gets a non-positive capacity.
const DefaultCacheCapacity = 64

// Cache is a thread-safe LRU cache of reflected shaders keyed by source.
//
// Reflection parses and lowers the whole module, so shaders created
// repeatedly from the same source reflect once. Parse errors are not cached.
// The returned *Info is shared between callers and must not be modified.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	lru      *list.List // front is most recently used
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	source string
	info   *Info
}

// NewCache creates a cache holding up to capacity sources.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
		capacity: capacity,
	}
}

// Reflect returns the cached Info for source, reflecting it on a miss.
func (c *Cache) Reflect(source string) (*Info, error) {
	c.mu.Lock()
	if el, ok := c.entries[source]; ok {
		c.lru.MoveToFront(el)
		info := el.Value.(*cacheEntry).info
		c.mu.Unlock()
		c.hits.Add(1)
		return info, nil
	}
	c.mu.Unlock()
	c.misses.Add(1)

	// Reflect outside the lock; a concurrent miss on the same source
	// reflects twice and the later result wins.
	info, err := Reflect(source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[source]; ok {
		el.Value.(*cacheEntry).info = info
		c.lru.MoveToFront(el)
		return info, nil
	}
	for c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).source)
		c.evictions.Add(1)
	}
	c.entries[source] = c.lru.PushFront(&cacheEntry{source: source, info: info})
	return info, nil
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear removes all entries. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
