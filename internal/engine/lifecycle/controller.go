// Package lifecycle implements the controller that switches the active
// instance between resource keys while maintaining the descriptor and instance
// caches.
package lifecycle

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/stagehand/internal/engine/cache"
	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/stagehand/internal/engine/loader"
	"go.trai.ch/zerr"
)

// Controller owns the active instance, both caches and the load slot.
//
// Apart from Subscribe, its methods must be called from the executor's
// logical thread: from the host between ticks or from a task.
type Controller struct {
	cfg       domain.Config
	backend   ports.LoadBackend
	container ports.Container
	overlay   ports.Overlay
	logger    ports.Logger
	telemetry ports.Telemetry
	exec      *executor.Executor

	loader      *loader.Loader
	descriptors *cache.Descriptors
	instances   *cache.Instances

	current     *domain.Instance
	currentKey  domain.ResourceKey
	previousKey domain.ResourceKey
	switching   bool
	// generation changes on every ClearCache; waiters that started in an
	// older generation drop their result.
	generation uint64

	subsMu  sync.Mutex
	subs    map[int]func(domain.Event)
	nextSub int

	now func() time.Time
}

// New creates a Controller. defaultOverlay and telemetry may be nil.
func New(
	cfg domain.Config,
	backend ports.LoadBackend,
	container ports.Container,
	defaultOverlay ports.Overlay,
	logger ports.Logger,
	telemetry ports.Telemetry,
	exec *executor.Executor,
) (*Controller, error) {
	if telemetry == nil {
		telemetry = nopTelemetry{}
	}
	c := &Controller{
		cfg:       cfg,
		backend:   backend,
		container: container,
		overlay:   defaultOverlay,
		logger:    logger,
		telemetry: telemetry,
		exec:      exec,
		subs:      make(map[int]func(domain.Event)),
		now:       time.Now,
	}

	descriptors, err := cache.NewDescriptors(cfg.MaxDescriptorCacheSize, logger)
	if err != nil {
		return nil, zerr.With(err, "cache", string(domain.CacheDescriptors))
	}
	instances, err := cache.NewInstances(cfg.MaxInstanceCacheSize, container, logger, c.emit)
	if err != nil {
		return nil, zerr.With(err, "cache", string(domain.CacheInstances))
	}

	c.descriptors = descriptors
	c.instances = instances
	c.loader = loader.New(backend, exec, loader.NewSlots(cfg.LoadSlots), logger)
	return c, nil
}

// Config returns the configuration in effect, including capacity changes.
func (c *Controller) Config() domain.Config {
	return c.cfg
}

// Subscribe registers fn for every lifecycle event and returns a function
// that removes the subscription.
func (c *Controller) Subscribe(fn func(domain.Event)) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) emit(ev domain.Event) {
	c.subsMu.Lock()
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	c.subsMu.Unlock()

	// Deliver in subscription order.
	slices.Sort(ids)
	for _, id := range ids {
		c.subsMu.Lock()
		fn, ok := c.subs[id]
		c.subsMu.Unlock()
		if ok {
			fn(ev)
		}
	}
}

// ClearCache disposes every cached instance, drops every cached descriptor
// and resets the load slot. Results of loads in flight are discarded.
func (c *Controller) ClearCache() {
	instances := c.instances.Clear()
	descriptors := c.descriptors.Clear()
	c.loader.Slots().Reset()
	c.generation++
	c.logger.Info(fmt.Sprintf("cleared caches: %d instances, %d descriptors", instances, descriptors))
}

// SetCapacity resizes one of the caches, evicting least recently used
// entries when it shrinks. A capacity below 1 is rejected and the previous
// capacity stays in effect.
func (c *Controller) SetCapacity(which domain.CacheKind, n int) error {
	var err error
	switch which {
	case domain.CacheInstances:
		if err = c.instances.SetCapacity(n); err == nil {
			c.cfg.MaxInstanceCacheSize = n
		}
	case domain.CacheDescriptors:
		if err = c.descriptors.SetCapacity(n); err == nil {
			c.cfg.MaxDescriptorCacheSize = n
		}
	default:
		err = zerr.Wrap(domain.ErrUnknownCache, "set capacity")
	}
	if err != nil {
		return zerr.With(zerr.With(err, "cache", string(which)), "capacity", n)
	}
	c.logger.Info(fmt.Sprintf("%s cache capacity set to %d", which, n))
	return nil
}

// CurrentKey returns the key of the active instance.
func (c *Controller) CurrentKey() domain.ResourceKey {
	return c.currentKey
}

// PreviousKey returns the key that was active before the last switch.
func (c *Controller) PreviousKey() domain.ResourceKey {
	return c.previousKey
}

// CurrentInstance returns the active instance, or nil.
func (c *Controller) CurrentInstance() *domain.Instance {
	return c.current
}

// IsCached reports whether key is held by either cache.
func (c *Controller) IsCached(key domain.ResourceKey) bool {
	return c.instances.Contains(key) || c.descriptors.Contains(key)
}

// LoadingProgress returns the progress of the tracked load of key.
// Keys that are not loading report 1 when cached and 0 otherwise.
func (c *Controller) LoadingProgress(key domain.ResourceKey) float64 {
	if p, ok := c.loader.Progress(key); ok {
		return p
	}
	if c.IsCached(key) {
		return 1
	}
	return 0
}

// Snapshot returns an introspection view of the caches and the load slot.
func (c *Controller) Snapshot() domain.CacheSnapshot {
	snap := domain.CacheSnapshot{
		CurrentKey:          c.currentKey,
		PreviousKey:         c.previousKey,
		Instances:           c.instances.Info(),
		DescriptorKeys:      c.descriptors.Keys(),
		InstanceCacheSize:   c.instances.Len(),
		InstanceCapacity:    c.instances.Capacity(),
		DescriptorCacheSize: c.descriptors.Len(),
		DescriptorCapacity:  c.descriptors.Capacity(),
		LoadState:           domain.LoadStateNotLoaded,
		UseAsyncLoading:     c.cfg.UseAsyncLoading,
		TakenAt:             c.now(),
	}
	if op := c.loader.Slots().Current(); op != nil {
		snap.LoadingKey = op.Key()
		snap.LoadState = op.State()
	}
	return snap
}
