package cache

import (
	"container/list"
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidCapacity is returned by New when capacity is not positive.
var ErrInvalidCapacity = errors.New("cache: invalid capacity")

// LRU is a bounded key/value store with least-recently-used eviction.
type LRU[K comparable, V any] struct {
	capacity  int
	items     map[K]*list.Element
	evictList *list.List // front = most recently used

	stats Stats
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates an LRU holding at most capacity entries.
func New[K comparable, V any](capacity int) (*LRU[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: must be > 0 but %d was requested", ErrInvalidCapacity, capacity)
	}

	return &LRU[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element, capacity),
		evictList: list.New(),
	}, nil
}

// Get returns the value for key and marks it as most recently used.
// A miss leaves the recency order untouched.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.stats.TotalRequests++

	if ent, ok := c.items[key]; ok {
		c.stats.Hits++
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}

	c.stats.Misses++
	var zero V
	return zero, false
}

// Peek returns the value for key without touching recency or statistics.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	if ent, ok := c.items[key]; ok {
		return ent.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached. It has no side effects.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Put inserts or refreshes key. Inserting into a full cache evicts the
// least-recently-used entry first.
func (c *LRU[K, V]) Put(key K, value V) {
	if ent, ok := c.items[key]; ok {
		ent.Value.(*entry[K, V]).value = value
		c.evictList.MoveToFront(ent)
		return
	}

	if c.evictList.Len() >= c.capacity {
		if oldest := c.evictList.Back(); oldest != nil {
			c.removeElement(oldest)
			c.stats.Evictions++
		}
	}

	c.items[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value})
}

// Delete removes key and reports whether it was present.
// Deletion is not counted as an eviction.
func (c *LRU[K, V]) Delete(key K) bool {
	ent, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(ent)
	return true
}

// Keys iterates keys from least to most recently used.
func (c *LRU[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for e := c.evictList.Back(); e != nil; e = e.Prev() {
			if !yield(e.Value.(*entry[K, V]).key) {
				return
			}
		}
	}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int { return c.evictList.Len() }

// Capacity returns the maximum number of entries.
func (c *LRU[K, V]) Capacity() int { return c.capacity }

// Stats returns a snapshot of the counters.
func (c *LRU[K, V]) Stats() Stats { return c.stats }

// HitRate returns hits / requests, or 0 before the first request.
func (c *LRU[K, V]) HitRate() float64 { return c.stats.HitRate() }

// Clear drops every entry and resets the counters.
func (c *LRU[K, V]) Clear() {
	clear(c.items)
	c.evictList.Init()
	c.stats = Stats{}
}

func (c *LRU[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*entry[K, V]).key)
}
