// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package cache provides a generic TTL-aware LRU cache used to memoize
// expensive scoring and narrative results.
package cache

import (
	"sync"
	"time"
)

// entry is a node in the doubly-linked LRU list.
type entry[V any] struct {
	key       string
	value     V
	cost      time.Duration
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

// Stats reports cache performance counters.
type Stats struct {
	Hits         int64         `json:"hits"`
	Misses       int64         `json:"misses"`
	Evictions    int64         `json:"evictions"`
	Expired      int64         `json:"expired"`
	Size         int           `json:"size"`
	Capacity     int           `json:"capacity"`
	HitRate      float64       `json:"hit_rate"`
	LatencySaved time.Duration `json:"latency_saved"`
	LastCleanup  time.Time     `json:"last_cleanup"`
}

// TTLCache is a thread-safe LRU cache with per-entry TTL.
//
// Key properties:
//   - O(1) Get, Set, Delete and eviction via a doubly-linked list
//     with sentinel head/tail nodes and a hashmap for lookups
//   - Lazy expiration on access plus explicit CleanupExpired sweeps
//   - Last write wins under concurrent Set for the same key
//   - Each entry may carry the cost of computing its value; hits
//     accumulate that cost as latency saved
type TTLCache[V any] struct {
	mu sync.RWMutex

	// capacity is the maximum number of entries
	capacity int

	// defaultTTL is applied by Set; SetWithTTL overrides per entry
	defaultTTL time.Duration

	// items maps keys to linked list nodes for O(1) lookup
	items map[string]*entry[V]

	// head and tail are sentinel nodes for the doubly-linked list.
	// head.next is the most recently used, tail.prev the least.
	head *entry[V]
	tail *entry[V]

	hits         int64
	misses       int64
	evictions    int64
	expired      int64
	latencySaved time.Duration
	lastCleanup  time.Time
}

// New creates a TTLCache with the given capacity and default TTL.
func New[V any](capacity int, defaultTTL time.Duration) *TTLCache[V] {
	if capacity <= 0 {
		capacity = 10000
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}

	c := &TTLCache[V]{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		items:      make(map[string]*entry[V], capacity),
		head:       &entry[V]{},
		tail:       &entry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get retrieves a value from the cache.
// Returns the zero value and false if the key is absent or expired.
// A hit moves the entry to the front (most recently used) and credits
// the entry's recorded compute cost to the latency-saved counter.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, exists := c.items[key]
	if !exists {
		c.misses++
		return zero, false
	}

	if time.Now().After(e.expiresAt) {
		c.removeEntry(e)
		c.expired++
		c.misses++
		return zero, false
	}

	c.moveToFront(e)
	c.hits++
	c.latencySaved += e.cost
	return e.value, true
}

// Set stores a value with the default TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with an explicit TTL.
func (c *TTLCache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.SetWithCost(key, value, ttl, 0)
}

// SetWithCost stores a value with an explicit TTL and the cost it took
// to compute. The cost is credited to LatencySaved on every later hit.
func (c *TTLCache[V]) SetWithCost(key string, value V, ttl time.Duration, cost time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiresAt := time.Now().Add(ttl)

	if e, exists := c.items[key]; exists {
		e.value = value
		e.cost = cost
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry[V]{
		key:       key,
		value:     value,
		cost:      cost,
		expiresAt: expiresAt,
	}
	c.addToFront(e)
	c.items[key] = e

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Contains reports whether a live entry exists without updating the
// access order or counters.
func (c *TTLCache[V]) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, exists := c.items[key]; exists {
		return !time.Now().After(e.expiresAt)
	}
	return false
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *TTLCache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, exists := c.items[key]; exists {
		c.removeEntry(e)
		return true
	}
	return false
}

// Clear removes all entries. Counters are preserved.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry[V], c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the current number of entries.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// CleanupExpired removes all expired entries and returns how many were
// removed. Intended to be driven by a periodic sweep service.
func (c *TTLCache[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0

	// Walk from tail (oldest) to head (newest)
	for e := c.tail.prev; e != c.head; {
		prev := e.prev
		if now.After(e.expiresAt) {
			c.removeEntry(e)
			removed++
		}
		e = prev
	}

	c.expired += int64(removed)
	c.lastCleanup = now
	return removed
}

// Stats returns a snapshot of the cache counters.
func (c *TTLCache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Hits:         c.hits,
		Misses:       c.misses,
		Evictions:    c.evictions,
		Expired:      c.expired,
		Size:         len(c.items),
		Capacity:     c.capacity,
		HitRate:      hitRate,
		LatencySaved: c.latencySaved,
		LastCleanup:  c.lastCleanup,
	}
}

// Internal methods (must be called with lock held)

// addToFront adds an entry to the front of the list (most recently used).
func (c *TTLCache[V]) addToFront(e *entry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

// moveToFront moves an existing entry to the front of the list.
func (c *TTLCache[V]) moveToFront(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

// removeEntry removes an entry from both the list and the map.
func (c *TTLCache[V]) removeEntry(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

// evictOldest removes the least recently used entry.
func (c *TTLCache[V]) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
	c.evictions++
}
