package app

import (
	"context"
	"time"

	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/stagehand/internal/engine/lifecycle"
	"go.trai.ch/zerr"
)

// driver plays the host role for the executor: it issues lifecycle calls
// and ticks between them.
type driver struct {
	ctrl     *lifecycle.Controller
	exec     *executor.Executor
	interval time.Duration
	pending  []pendingOp
}

type pendingOp struct {
	step   Step
	future *executor.Future
}

func (d *driver) run(ctx context.Context, step Step) error {
	switch step.Kind {
	case StepSwitch, StepSwitchNoCache:
		var opts []lifecycle.SwitchOption
		if step.Kind == StepSwitchNoCache {
			opts = append(opts, lifecycle.WithoutCache())
		}
		f := d.ctrl.Switch(ctx, step.Key, opts...)
		if err := d.exec.RunUntil(ctx, f, d.interval); err != nil {
			return err
		}
		return stepErr(step, f.Err())
	case StepPreload:
		d.pending = append(d.pending, pendingOp{step: step, future: d.ctrl.Preload(ctx, step.Key)})
		return nil
	case StepClear:
		d.ctrl.ClearCache()
		return nil
	case StepCapacity:
		return stepErr(step, d.ctrl.SetCapacity(step.Cache, step.N))
	case StepTick:
		return d.tick(ctx, step.N)
	}
	return nil
}

func (d *driver) tick(ctx context.Context, n int) error {
	if n == 0 {
		return nil
	}
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for range n {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.exec.Tick()
		}
	}
	return nil
}

// drain ticks until every pending preload resolved.
func (d *driver) drain(ctx context.Context) []error {
	var errs []error
	for _, op := range d.pending {
		if err := d.exec.RunUntil(ctx, op.future, d.interval); err != nil {
			return append(errs, err)
		}
		if err := stepErr(op.step, op.future.Err()); err != nil {
			errs = append(errs, err)
		}
	}
	d.pending = nil
	return errs
}

func stepErr(step Step, err error) error {
	if err == nil {
		return nil
	}
	return zerr.With(err, "step", string(step.Kind))
}
