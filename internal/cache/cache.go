// SPDX-License-Identifier: MIT

// Package cache implements the TTL+LRU response cache from spec.md §4.7,
// keyed by (op, canonicalized params). Grounded on the teacher's
// internal/cache package (janitor-swept in-memory cache, Stats) with an LRU
// eviction bound added and singleflight collapsing for concurrent misses on
// the same key, since the original had neither.
package cache

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fretline/discovery/internal/metrics"
)

// Stats mirrors the teacher's CacheStats shape.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type entry struct {
	key        string
	op         string
	value      any
	expiresAt  time.Time
	listElem   *list.Element
}

// Cache is a thread-safe, TTL-expiring, size-bounded LRU cache. A zero
// maxEntries means unbounded (LRU eviction disabled, TTL still applies).
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	order      *list.List // front = most recently used
	maxEntries int
	stats      Stats

	group singleflight.Group

	stopJanitor chan struct{}
}

// New creates a Cache. cleanupInterval <= 0 disables the background janitor
// (expired entries are still skipped lazily on Get).
func New(maxEntries int, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		order:      list.New(),
		maxEntries: maxEntries,
	}
	if cleanupInterval > 0 {
		c.stopJanitor = make(chan struct{})
		go c.runJanitor(cleanupInterval)
	}
	return c
}

// Close stops the background janitor, if any.
func (c *Cache) Close() {
	if c.stopJanitor != nil {
		close(c.stopJanitor)
	}
}

func (c *Cache) runJanitor(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.sweep()
		case <-c.stopJanitor:
			return
		}
	}
}

func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			c.removeLocked(k)
			c.stats.Evictions++
		}
	}
}

// Get retrieves a value, reporting a miss if absent or expired.
func (c *Cache) Get(op, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		if ok {
			c.removeLocked(key)
		}
		c.stats.Misses++
		metrics.CacheMiss.WithLabelValues(op).Inc()
		return nil, false
	}
	c.order.MoveToFront(e.listElem)
	c.stats.Hits++
	metrics.CacheHit.WithLabelValues(op).Inc()
	return e.value, true
}

// Set stores a value with the given TTL, evicting the least-recently-used
// entry if the cache is at capacity.
func (c *Cache) Set(op, key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.value = value
		existing.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(existing.listElem)
		c.stats.Sets++
		return
	}

	e := &entry{key: key, op: op, value: value, expiresAt: time.Now().Add(ttl)}
	e.listElem = c.order.PushFront(e)
	c.entries[key] = e
	c.stats.Sets++

	if c.maxEntries > 0 {
		for len(c.entries) > c.maxEntries {
			back := c.order.Back()
			if back == nil {
				break
			}
			c.removeLocked(back.Value.(*entry).key)
			c.stats.Evictions++
		}
	}
}

func (c *Cache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.order.Remove(e.listElem)
	delete(c.entries, key)
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.CurrentSize = len(c.entries)
	return s
}

// GetOrLoad returns the cached value for key, or calls load exactly once
// across all concurrent callers sharing the same key (via singleflight),
// storing the result with ttl on success. A failed load is never cached.
func (c *Cache) GetOrLoad(op, key string, ttl time.Duration, load func() (any, error)) (any, error) {
	if v, ok := c.Get(op, key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(op, key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(op, key, v, ttl)
		return v, nil
	})
	return v, err
}
