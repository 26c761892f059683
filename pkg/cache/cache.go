// Package cache provides a time-bounded, size-bounded cache with
// least-recently-used eviction. Entries are advisory: on miss or eviction
// the caller re-derives truth from the store.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
	lruElem *list.Element // position in LRU list
}

// Cache is a TTL+LRU cache safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]*entry[V]
	lruList *list.List // front = most recently used, back = least recently used
	now     func() time.Time
}

// New creates a cache holding at most maxSize entries, each valid for ttl.
func New[V any](maxSize int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*entry[V]),
		lruList: list.New(),
		now:     time.Now,
	}
}

// Get returns the cached value when present and unexpired, refreshing its
// recency. Expired entries are removed on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expires) {
		c.lruList.Remove(e.lruElem)
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	c.lruList.MoveToFront(e.lruElem)
	return e.value, true
}

// Put stores a value, evicting the least recently used entry at capacity.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expires = c.now().Add(c.ttl)
		c.lruList.MoveToFront(e.lruElem)
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	e := &entry[V]{key: key, value: value, expires: c.now().Add(c.ttl)}
	e.lruElem = c.lruList.PushFront(key)
	c.entries[key] = e
}

// Len reports the number of live entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes the least recently used entry.
// Must be called with c.mu held.
func (c *Cache[V]) evictOldest() {
	back := c.lruList.Back()
	if back == nil {
		return
	}
	key := back.Value.(string)
	c.lruList.Remove(back)
	delete(c.entries, key)
}
