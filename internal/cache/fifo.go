// Package cache holds the in-process caches in front of the store.
package cache

import (
	"slices"
	"sync"

	"github.com/vmunix/vkine/internal/metrics"
)

// FIFO is a fixed-capacity cache evicting in insertion order of distinct keys.
// Re-inserting a key replaces its value without moving it in the queue.
// A capacity of zero disables the cache.
type FIFO[V any] struct {
	name     string
	capacity int
	clone    func(V) V

	mu      sync.Mutex
	entries map[int]V
	order   []int // oldest first
}

// NewFIFO returns a FIFO holding at most capacity entries. Negative capacities are treated as zero.
func NewFIFO[V any](name string, capacity int) *FIFO[V] {
	capacity = max(capacity, 0)
	return &FIFO[V]{
		name:     name,
		capacity: capacity,
		entries:  make(map[int]V, capacity),
		order:    make([]int, 0, capacity),
	}
}

// WithClone makes the cache copy values on Put and on every hit, so callers
// never share mutable state with cached entries. It returns c.
func (c *FIFO[V]) WithClone(clone func(V) V) *FIFO[V] {
	c.clone = clone
	return c
}

// Get returns the cached values for keys and the keys that missed,
// sorted ascending without duplicates.
func (c *FIFO[V]) Get(keys []int) (map[int]V, []int) {
	hits := make(map[int]V, len(keys))
	var misses []int

	c.mu.Lock()
	for _, k := range keys {
		if v, ok := c.entries[k]; ok {
			if c.clone != nil {
				v = c.clone(v)
			}
			hits[k] = v
			continue
		}
		misses = append(misses, k)
	}
	c.mu.Unlock()

	slices.Sort(misses)
	misses = slices.Compact(misses)

	for range hits {
		metrics.Hit(c.name)
	}
	for range misses {
		metrics.Miss(c.name)
	}
	return hits, misses
}

// Put stores v under key, evicting the oldest key when over capacity.
func (c *FIFO[V]) Put(key int, v V) {
	if c.capacity == 0 {
		return
	}
	if c.clone != nil {
		v = c.clone(v)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = v
		return
	}
	c.entries[key] = v
	c.order = append(c.order, key)
	if len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
	}
}

// Len returns the number of cached entries.
func (c *FIFO[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns cached keys oldest first.
func (c *FIFO[V]) Keys() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}
