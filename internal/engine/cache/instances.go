package cache

import (
	"time"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/stagehand/internal/engine/lru"
	"go.trai.ch/zerr"
)

// Notify receives lifecycle notifications.
type Notify func(domain.Event)

// Instances is the bounded cache of deactivated instances.
//
// Every instance entering the cache is detached from the host container first.
// Every instance leaving it without being handed back to the caller is
// detached and disposed exactly once, and evictions emit an instance-evicted
// event.
type Instances struct {
	entries   *lru.Cache[domain.ResourceKey, *domain.Instance]
	container ports.Container
	logger    ports.Logger
	notify    Notify
	now       func() time.Time
}

// NewInstances creates an instance cache with the given capacity.
// notify may be nil.
func NewInstances(capacity int, container ports.Container, logger ports.Logger, notify Notify) (*Instances, error) {
	c := &Instances{
		container: container,
		logger:    logger,
		notify:    notify,
		now:       time.Now,
	}
	entries, err := lru.New(capacity, c.onRemove)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// Get returns the cached instance for key without consuming it.
func (c *Instances) Get(key domain.ResourceKey) (*domain.Instance, bool) {
	return c.entries.Get(key)
}

// Contains reports whether key is cached.
func (c *Instances) Contains(key domain.ResourceKey) bool {
	return c.entries.Contains(key)
}

// Put detaches inst and stores it as the most recently used entry.
// A stale instance under the same key is disposed; entries beyond capacity
// are evicted.
func (c *Instances) Put(key domain.ResourceKey, inst *domain.Instance) error {
	if inst == nil {
		return zerr.With(zerr.New("cannot cache a nil instance"), "key", key.String())
	}
	if err := EnsureDetached(c.container, inst); err != nil {
		return err
	}
	inst.CachedAt = c.now()
	c.entries.Put(key, inst)
	c.emit(domain.Event{Kind: domain.EventInstanceCached, Key: key})
	return nil
}

// Remove takes the instance for key out of the cache, verifying it is detached.
// Ownership moves to the caller.
func (c *Instances) Remove(key domain.ResourceKey) (*domain.Instance, bool, error) {
	inst, ok := c.entries.Remove(key)
	if !ok {
		return nil, false, nil
	}
	if err := EnsureDetached(c.container, inst); err != nil {
		return inst, true, err
	}
	return inst, true, nil
}

// Touch marks key as most recently used and refreshes its cache time.
func (c *Instances) Touch(key domain.ResourceKey) bool {
	inst, ok := c.entries.Get(key)
	if !ok {
		return false
	}
	inst.CachedAt = c.now()
	return c.entries.Touch(key)
}

// Evict disposes the least recently used instance and returns it.
func (c *Instances) Evict() (domain.ResourceKey, *domain.Instance, bool) {
	e, ok := c.entries.Evict()
	if !ok {
		return domain.ResourceKey{}, nil, false
	}
	c.discard(e.Key, e.Value, true)
	return e.Key, e.Value, true
}

// Drop disposes the instance cached for key, emitting an instance-evicted
// event. It reports whether an instance was cached.
func (c *Instances) Drop(key domain.ResourceKey) bool {
	inst, ok := c.entries.Remove(key)
	if !ok {
		return false
	}
	c.discard(key, inst, true)
	return true
}

// Clear disposes every cached instance, emitting one instance-evicted event
// per entry, and returns how many were held.
func (c *Instances) Clear() int {
	entries := c.entries.Drain()
	for _, e := range entries {
		c.discard(e.Key, e.Value, true)
	}
	return len(entries)
}

// Len returns the number of cached instances.
func (c *Instances) Len() int {
	return c.entries.Len()
}

// Capacity returns the maximum number of cached instances.
func (c *Instances) Capacity() int {
	return c.entries.Capacity()
}

// SetCapacity resizes the cache, evicting from the least recently used end.
func (c *Instances) SetCapacity(capacity int) error {
	return c.entries.SetCapacity(capacity)
}

// Keys returns the cached keys, least recently used first.
func (c *Instances) Keys() []domain.ResourceKey {
	return c.entries.Keys()
}

// Info describes the cached instances, least recently used first.
func (c *Instances) Info() []domain.CachedInstanceInfo {
	entries := c.entries.Entries()
	info := make([]domain.CachedInstanceInfo, len(entries))
	for i, e := range entries {
		info[i] = domain.CachedInstanceInfo{
			Key:         e.Key,
			ID:          e.Value.ID,
			AccessCount: e.Value.AccessCount,
			CachedAt:    e.Value.CachedAt,
		}
	}
	return info
}

func (c *Instances) onRemove(key domain.ResourceKey, inst *domain.Instance, reason lru.RemoveReason) {
	c.discard(key, inst, reason == lru.ReasonEvicted)
}

func (c *Instances) discard(key domain.ResourceKey, inst *domain.Instance, evicted bool) {
	if err := Discard(c.container, inst); err != nil {
		c.logger.Error(zerr.With(zerr.Wrap(err, "failed to dispose cached instance"), "key", key.String()))
	}
	if evicted {
		c.logger.Info("removed instance from cache: " + key.String())
		c.emit(domain.Event{Kind: domain.EventInstanceEvicted, Key: key})
	}
}

func (c *Instances) emit(ev domain.Event) {
	if c.notify != nil {
		c.notify(ev)
	}
}
