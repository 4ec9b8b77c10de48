package cache

import (
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/stagehand/internal/engine/lru"
)

// Descriptors is the bounded cache of loaded, not yet instantiated descriptors.
// Evicted descriptors are simply dropped.
type Descriptors struct {
	entries *lru.Cache[domain.ResourceKey, *domain.Descriptor]
	logger  ports.Logger
}

// NewDescriptors creates a descriptor cache with the given capacity.
func NewDescriptors(capacity int, logger ports.Logger) (*Descriptors, error) {
	d := &Descriptors{logger: logger}
	entries, err := lru.New(capacity, d.onRemove)
	if err != nil {
		return nil, err
	}
	d.entries = entries
	return d, nil
}

// Get returns the descriptor for key without consuming it.
func (d *Descriptors) Get(key domain.ResourceKey) (*domain.Descriptor, bool) {
	return d.entries.Get(key)
}

// Contains reports whether key is cached.
func (d *Descriptors) Contains(key domain.ResourceKey) bool {
	return d.entries.Contains(key)
}

// Put stores desc as the most recently used descriptor, evicting as needed.
func (d *Descriptors) Put(key domain.ResourceKey, desc *domain.Descriptor) {
	d.entries.Put(key, desc)
}

// Remove consumes the descriptor for key.
func (d *Descriptors) Remove(key domain.ResourceKey) (*domain.Descriptor, bool) {
	return d.entries.Remove(key)
}

// Touch marks key as most recently used.
func (d *Descriptors) Touch(key domain.ResourceKey) bool {
	return d.entries.Touch(key)
}

// Evict drops the least recently used descriptor and returns it.
func (d *Descriptors) Evict() (domain.ResourceKey, *domain.Descriptor, bool) {
	e, ok := d.entries.Evict()
	if ok {
		d.logger.Info("dropped preloaded descriptor: " + e.Key.String())
	}
	return e.Key, e.Value, ok
}

// Clear drops every descriptor and returns how many were held.
func (d *Descriptors) Clear() int {
	return len(d.entries.Drain())
}

// Len returns the number of cached descriptors.
func (d *Descriptors) Len() int {
	return d.entries.Len()
}

// Capacity returns the maximum number of cached descriptors.
func (d *Descriptors) Capacity() int {
	return d.entries.Capacity()
}

// SetCapacity resizes the cache, evicting from the least recently used end.
func (d *Descriptors) SetCapacity(capacity int) error {
	return d.entries.SetCapacity(capacity)
}

// Keys returns the cached keys, least recently used first.
func (d *Descriptors) Keys() []domain.ResourceKey {
	return d.entries.Keys()
}

func (d *Descriptors) onRemove(key domain.ResourceKey, _ *domain.Descriptor, reason lru.RemoveReason) {
	d.logger.Info("dropped preloaded descriptor (" + reason.String() + "): " + key.String())
}
