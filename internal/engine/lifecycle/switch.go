package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/stagehand/internal/engine/cache"
	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/stagehand/internal/engine/loader"
	"go.trai.ch/zerr"
)

// Switch makes key the active instance.
//
// The returned Future completes once the new instance is attached and ready
// and the overlay is hidden. Switching to the active key completes
// immediately. A Switch issued while another one is suspended fails with
// ErrBusy. Failures up to attaching the new instance leave the active
// instance and the caches as they were. Once attached, the new instance stays
// active even if ctx ends before it reports ready; the switch then fails with
// the context error.
func (c *Controller) Switch(ctx context.Context, key domain.ResourceKey, opts ...SwitchOption) *executor.Future {
	if key.IsZero() {
		err := zerr.Wrap(domain.ErrKeyNotFound, "switch requires a resource key")
		c.emit(domain.Event{Kind: domain.EventSwitchFailed, Key: key, Err: err})
		return executor.Completed(err)
	}
	if key == c.currentKey {
		c.emit(domain.Event{Kind: domain.EventSwitchCompleted, Key: key})
		return executor.Completed(nil)
	}
	if c.switching {
		err := zerr.With(zerr.Wrap(domain.ErrBusy, "switch rejected"), "key", key.String())
		c.logger.Warn(err.Error())
		c.emit(domain.Event{Kind: domain.EventSwitchFailed, Key: key, Err: err})
		return executor.Completed(err)
	}

	o := newSwitchOptions(opts)
	c.switching = true
	return c.exec.Spawn(ctx, "switch "+key.String(), func(ctx context.Context) error {
		defer func() { c.switching = false }()
		return c.runSwitch(ctx, key, o)
	})
}

func (c *Controller) runSwitch(ctx context.Context, key domain.ResourceKey, o switchOptions) (err error) {
	ctx, v := c.telemetry.Record(ctx, key.String(), ports.WithGroup("switch"))
	defer func() { v.Complete(err) }()

	c.logger.Info(fmt.Sprintf("switching from %q to %q", c.currentKey, key))
	c.emit(domain.Event{Kind: domain.EventSwitchStarted, Key: key, From: c.currentKey})

	ov, custom := c.resolveOverlay(o)
	c.showOverlay(ctx, ov)
	err = c.swap(ctx, key, o.useCache, v)
	c.hideOverlay(context.WithoutCancel(ctx), ov, custom)

	if err != nil {
		err = zerr.With(err, "key", key.String())
		c.logger.Error(zerr.Wrap(err, "switch failed"))
		c.emit(domain.Event{Kind: domain.EventSwitchFailed, Key: key, Err: err})
		return err
	}
	c.logger.Info("switched to " + key.String())
	c.emit(domain.Event{Kind: domain.EventSwitchCompleted, Key: key})
	return nil
}

// swap resolves an instance for key, hands the active slot over to it and
// waits until it is ready.
func (c *Controller) swap(ctx context.Context, key domain.ResourceKey, useCache bool, v ports.Vertex) error {
	inst, err := c.resolve(ctx, key, useCache, v)
	if err != nil {
		return err
	}
	if err := c.handOff(key, inst, useCache); err != nil {
		return err
	}
	if err := c.exec.Await(ctx, inst.Ready); err != nil {
		return zerr.Wrap(err, "instance attached but not ready")
	}
	return nil
}

// resolve produces the incoming instance. The first source that holds key
// wins: descriptor cache, tracked load, instance cache, fresh load.
func (c *Controller) resolve(ctx context.Context, key domain.ResourceKey, useCache bool, v ports.Vertex) (*domain.Instance, error) {
	if desc, ok := c.descriptors.Remove(key); ok {
		v.Log(domain.LogLevelInfo, "using preloaded descriptor")
		return c.instantiate(ctx, desc)
	}

	if op, ok := c.loader.Slots().Lookup(key); ok {
		v.Log(domain.LogLevelInfo, "waiting for load in flight")
		return c.awaitLoad(ctx, op)
	}

	if useCache {
		inst, ok, err := c.instances.Remove(key)
		if ok {
			if err != nil {
				if discardErr := cache.Discard(c.container, inst); discardErr != nil {
					c.logger.Error(discardErr)
				}
				return nil, err
			}
			inst.AccessCount++
			v.Log(domain.LogLevelInfo, "reusing cached instance")
			v.Cached()
			return inst, nil
		}
	}

	op, err := c.loader.Begin(ctx, key, c.cfg.LoadMode())
	if err != nil {
		return nil, err
	}
	return c.awaitLoad(ctx, op)
}

// awaitLoad waits for op and instantiates its descriptor unless another
// waiter already took it or the caches were cleared meanwhile.
func (c *Controller) awaitLoad(ctx context.Context, op *loader.Operation) (*domain.Instance, error) {
	gen := c.generation
	st, err := c.loader.Wait(ctx, op)
	if err != nil {
		return nil, err
	}

	switch {
	case gen != c.generation:
		return nil, zerr.With(zerr.Wrap(domain.ErrLoadAbandoned, "caches cleared while loading"), "key", op.Key().String())
	case c.descriptors.Contains(op.Key()):
		// A preload waiting on the same operation moved it into the cache first.
		c.loader.Slots().Release(op)
		desc, _ := c.descriptors.Remove(op.Key())
		return c.instantiate(ctx, desc)
	case op.State() == domain.LoadStateLoaded:
		c.loader.Slots().Release(op)
		op.MarkInstantiated()
		return c.instantiate(ctx, st.Descriptor)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrLoadAbandoned, "descriptor already consumed"), "key", op.Key().String())
	}
}

func (c *Controller) instantiate(ctx context.Context, desc *domain.Descriptor) (*domain.Instance, error) {
	inst, err := c.backend.Instantiate(ctx, desc)
	switch {
	case err != nil && errors.Is(err, domain.ErrInstantiationFailed):
		return nil, zerr.Wrap(err, "instantiate descriptor")
	case err != nil:
		return nil, zerr.Wrap(errors.Join(domain.ErrInstantiationFailed, err), "instantiate descriptor")
	case inst == nil:
		return nil, zerr.With(zerr.Wrap(domain.ErrInstantiationFailed, "backend returned no instance"), "key", desc.Key.String())
	}
	return inst, nil
}

// handOff detaches the outgoing instance, caches or disposes it, and attaches
// inst as the active instance.
func (c *Controller) handOff(key domain.ResourceKey, inst *domain.Instance, useCache bool) error {
	out, outKey := c.current, c.currentKey
	if out != nil && out != inst {
		if useCache && outKey != key {
			if err := c.instances.Put(outKey, out); err != nil {
				c.logger.Error(zerr.Wrap(err, "failed to cache outgoing instance"))
				if discardErr := cache.Discard(c.container, out); discardErr != nil {
					c.logger.Error(discardErr)
				}
			}
		} else if err := cache.Discard(c.container, out); err != nil {
			c.logger.Error(zerr.With(zerr.Wrap(err, "failed to dispose outgoing instance"), "key", outKey.String()))
		}
	}

	// A stale cached instance of the incoming key is superseded.
	if c.instances.Contains(key) {
		c.instances.Drop(key)
	}

	c.current = nil
	if err := c.container.Attach(inst); err != nil && !errors.Is(err, domain.ErrAlreadyAttached) {
		if discardErr := cache.Discard(c.container, inst); discardErr != nil {
			c.logger.Error(discardErr)
		}
		c.previousKey, c.currentKey = outKey, domain.ResourceKey{}
		return zerr.Wrap(err, "failed to attach instance")
	}

	c.current = inst
	c.previousKey, c.currentKey = outKey, key
	return nil
}

// resolveOverlay picks the overlay for a switch and reports whether it is a
// caller-provided one.
func (c *Controller) resolveOverlay(o switchOptions) (ports.Overlay, bool) {
	switch {
	case c.cfg.AlwaysUseDefaultOverlay:
		return c.overlay, false
	case o.mode == overlayNone:
		return nil, false
	case o.mode == overlayCustom:
		return o.overlay, true
	default:
		return c.overlay, false
	}
}

func (c *Controller) showOverlay(ctx context.Context, ov ports.Overlay) {
	if ov == nil {
		return
	}
	shown, err := ov.Show(ctx)
	if err != nil {
		c.logger.Warn("failed to show overlay: " + err.Error())
		return
	}
	if err := c.exec.Await(ctx, shown); err != nil {
		c.logger.Warn("stopped waiting for overlay: " + err.Error())
		return
	}
	c.emit(domain.Event{Kind: domain.EventOverlayShown})
}

func (c *Controller) hideOverlay(ctx context.Context, ov ports.Overlay, custom bool) {
	if ov == nil {
		return
	}
	hidden, err := ov.Hide(ctx)
	if err != nil {
		c.logger.Error(zerr.Wrap(err, "failed to hide overlay"))
	} else if err := c.exec.Await(ctx, hidden); err != nil {
		c.logger.Error(zerr.Wrap(err, "failed waiting for overlay to hide"))
	} else {
		c.emit(domain.Event{Kind: domain.EventOverlayHidden})
	}

	if closer, ok := ov.(io.Closer); ok && custom {
		if err := closer.Close(); err != nil {
			c.logger.Error(zerr.Wrap(err, "failed to close overlay"))
		}
	}
}
