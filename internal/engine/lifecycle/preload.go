package lifecycle

import (
	"context"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/zerr"
)

// Preload loads the descriptor of key into the descriptor cache without
// instantiating it.
//
// Preloading a key that is active, cached or already loading is a no-op.
// Preloads may run alongside each other and alongside a switch.
func (c *Controller) Preload(ctx context.Context, key domain.ResourceKey) *executor.Future {
	switch {
	case key.IsZero():
		return c.preloadNotFound(key)
	case key == c.currentKey:
		return executor.Completed(nil)
	case c.descriptors.Touch(key):
		c.logger.Info("already preloaded: " + key.String())
		return executor.Completed(nil)
	case c.instances.Contains(key):
		return executor.Completed(nil)
	}
	if _, ok := c.loader.Slots().Lookup(key); ok {
		c.logger.Info("already loading: " + key.String())
		return executor.Completed(nil)
	}
	if !c.backend.Exists(key) {
		return c.preloadNotFound(key)
	}

	return c.exec.Spawn(ctx, "preload "+key.String(), func(ctx context.Context) error {
		return c.runPreload(ctx, key)
	})
}

func (c *Controller) preloadNotFound(key domain.ResourceKey) *executor.Future {
	err := zerr.With(zerr.Wrap(domain.ErrKeyNotFound, "preload"), "key", key.String())
	c.logger.Error(err)
	c.emit(domain.Event{Kind: domain.EventPreloadFailed, Key: key, Err: err})
	return executor.Completed(err)
}

func (c *Controller) runPreload(ctx context.Context, key domain.ResourceKey) (err error) {
	ctx, v := c.telemetry.Record(ctx, key.String(), ports.WithGroup("preload"))
	defer func() { v.Complete(err) }()

	defer func() {
		if err != nil {
			c.logger.Error(zerr.Wrap(err, "preload failed"))
			c.emit(domain.Event{Kind: domain.EventPreloadFailed, Key: key, Err: err})
		}
	}()

	c.emit(domain.Event{Kind: domain.EventPreloadStarted, Key: key})
	gen := c.generation

	op, err := c.loader.Begin(ctx, key, c.cfg.LoadMode())
	if err != nil {
		return err
	}
	st, err := c.loader.Wait(ctx, op)
	if err != nil {
		return err
	}

	switch {
	case gen != c.generation:
		return zerr.With(zerr.Wrap(domain.ErrLoadAbandoned, "caches cleared while preloading"), "key", key.String())
	case op.State() == domain.LoadStateInstantiated:
		// A switch waiting on the same operation already took the descriptor.
		v.Log(domain.LogLevelInfo, "descriptor consumed by switch")
	case !c.loader.Slots().Owns(op):
		return zerr.With(zerr.Wrap(domain.ErrLoadAbandoned, "load slot taken over"), "key", key.String())
	case key == c.currentKey || c.instances.Contains(key):
		// Activated by a switch that loaded it on its own.
		c.loader.Slots().Release(op)
		v.Log(domain.LogLevelInfo, "already instantiated, descriptor dropped")
	default:
		c.loader.Slots().Release(op)
		c.descriptors.Put(key, st.Descriptor)
		c.logger.Info("preloaded " + key.String())
	}

	c.emit(domain.Event{Kind: domain.EventPreloadCompleted, Key: key})
	return nil
}
