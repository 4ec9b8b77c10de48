// Package lru implements the bounded least-recently-used ordering shared by
// the descriptor and instance caches.
//
// A Cache is not safe for concurrent use. The lifecycle engine only touches it
// from its single logical thread.
package lru

import (
	"container/list"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

// RemoveReason tells a RemoveFunc why an entry left the cache.
type RemoveReason int

const (
	// ReasonEvicted means the entry was dropped to restore capacity.
	ReasonEvicted RemoveReason = iota
	// ReasonReplaced means a Put for the same key superseded the entry.
	ReasonReplaced
)

// String returns the string representation of the RemoveReason.
func (r RemoveReason) String() string {
	if r == ReasonReplaced {
		return "replaced"
	}
	return "evicted"
}

// RemoveFunc is called for entries the cache drops on its own.
// Entries handed back by Remove, Evict and Drain are owned by the caller and
// never reach the RemoveFunc.
type RemoveFunc[K comparable, V any] func(key K, value V, reason RemoveReason)

// Entry is a key/value pair held by the cache.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Cache is a capacity-bounded map ordered from least to most recently used.
type Cache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	// front = least recently used, back = most recently used
	order    *list.List
	onRemove RemoveFunc[K, V]
}

// New creates a cache holding at most capacity entries.
// onRemove may be nil.
func New[K comparable, V any](capacity int, onRemove RemoveFunc[K, V]) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidCapacity, "create lru cache"), "capacity", capacity)
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		onRemove: onRemove,
	}, nil
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	return c.order.Len()
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Contains reports whether key is present without changing its position.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Get returns the value for key without changing its position.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return el.Value.(*Entry[K, V]).Value, true
}

// Touch marks key as most recently used. It reports whether key was present.
func (c *Cache[K, V]) Touch(key K) bool {
	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.order.MoveToBack(el)
	return true
}

// Put inserts value as the most recently used entry.
// An existing entry for key is removed first and reported with ReasonReplaced.
// Entries are then evicted from the least recently used end until the cache is
// within capacity, each reported with ReasonEvicted.
func (c *Cache[K, V]) Put(key K, value V) {
	if el, ok := c.items[key]; ok {
		stale := c.unlink(el)
		c.notify(stale, ReasonReplaced)
	}

	c.items[key] = c.order.PushBack(&Entry[K, V]{Key: key, Value: value})
	c.trim()
}

// Remove deletes key and hands its value back to the caller.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.unlink(el).Value, true
}

// Evict removes the least recently used entry and hands it back to the caller.
func (c *Cache[K, V]) Evict() (Entry[K, V], bool) {
	el := c.order.Front()
	if el == nil {
		return Entry[K, V]{}, false
	}
	return c.unlink(el), true
}

// Drain removes every entry, least recently used first, and hands them back.
func (c *Cache[K, V]) Drain() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, c.order.Len())
	for {
		e, ok := c.Evict()
		if !ok {
			return entries
		}
		entries = append(entries, e)
	}
}

// SetCapacity changes the capacity and evicts entries that no longer fit.
// A capacity below 1 is rejected and the previous capacity stays in effect.
func (c *Cache[K, V]) SetCapacity(capacity int) error {
	if capacity < 1 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidCapacity, "resize lru cache"), "capacity", capacity)
	}
	c.capacity = capacity
	c.trim()
	return nil
}

// Keys returns the keys ordered from least to most recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*Entry[K, V]).Key)
	}
	return keys
}

// Entries returns the entries ordered from least to most recently used.
func (c *Cache[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		entries = append(entries, *el.Value.(*Entry[K, V]))
	}
	return entries
}

func (c *Cache[K, V]) trim() {
	for c.order.Len() > c.capacity {
		e, _ := c.Evict()
		c.notify(e, ReasonEvicted)
	}
}

func (c *Cache[K, V]) unlink(el *list.Element) Entry[K, V] {
	e := c.order.Remove(el).(*Entry[K, V])
	delete(c.items, e.Key)
	return *e
}

func (c *Cache[K, V]) notify(e Entry[K, V], reason RemoveReason) {
	if c.onRemove != nil {
		c.onRemove(e.Key, e.Value, reason)
	}
}
