package loader

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/zerr"
)

// progressLogInterval bounds how often progress of a threaded load is logged.
const progressLogInterval = 500 * time.Millisecond

// Loader begins load operations, tracks them in its Slots and waits for them
// on the executor.
type Loader struct {
	backend ports.LoadBackend
	exec    *executor.Executor
	slots   Slots
	logger  ports.Logger
	now     func() time.Time
}

// New creates a Loader.
func New(backend ports.LoadBackend, exec *executor.Executor, slots Slots, logger ports.Logger) *Loader {
	return &Loader{
		backend: backend,
		exec:    exec,
		slots:   slots,
		logger:  logger,
		now:     time.Now,
	}
}

// Slots returns the slot tracker.
func (l *Loader) Slots() Slots {
	return l.slots
}

// Begin starts loading key and tracks the operation in the slots.
//
// In ModeSync the backend is called inline and the returned operation is
// already terminal. Failing to start a load returns an error and tracks
// nothing.
func (l *Loader) Begin(ctx context.Context, key domain.ResourceKey, mode domain.LoadMode) (*Operation, error) {
	op := &Operation{
		key:       key,
		mode:      mode,
		backend:   l.backend,
		state:     domain.LoadStateLoading,
		status:    domain.LoadStatus{State: domain.PollInProgress},
		startedAt: l.now(),
	}

	switch mode {
	case domain.ModeSync:
		l.logger.Info("loading synchronously: " + key.String())
		desc, err := l.backend.LoadDescriptor(ctx, key)
		if err != nil {
			return nil, zerr.With(normalizeLoadErr(err), "key", key.String())
		}
		op.observe(domain.LoadStatus{State: domain.PollDone, Descriptor: desc})
		if op.status.State == domain.PollFailed {
			return nil, zerr.With(op.status.Err, "key", key.String())
		}
	default:
		l.logger.Info("loading in background: " + key.String())
		if err := l.backend.BeginThreadedLoad(key); err != nil {
			return nil, zerr.With(normalizeLoadErr(err), "key", key.String())
		}
	}

	if abandoned := l.slots.Track(op); abandoned != nil {
		l.logger.Warn(fmt.Sprintf("load slot taken over by %s, no longer tracking %s", key, abandoned.Key()))
	}
	return op, nil
}

// Wait suspends the calling task until op is terminal, polling it once per
// tick, and returns the terminal status. Load failures release the slot and
// are reported through the returned error.
func (l *Loader) Wait(ctx context.Context, op *Operation) (domain.LoadStatus, error) {
	lastLog := l.now()
	for {
		st := op.Poll()
		if st.IsTerminal() {
			break
		}
		if l.now().Sub(lastLog) >= progressLogInterval {
			l.logger.Info(fmt.Sprintf("loading %s: %.0f%%", op.Key(), st.Progress*100))
			lastLog = l.now()
		}
		if err := l.exec.Yield(ctx); err != nil {
			return st, err
		}
	}

	st := op.Status()
	if st.State == domain.PollFailed {
		l.slots.Release(op)
		return st, zerr.With(st.Err, "key", op.Key().String())
	}
	return st, nil
}

// Progress returns the last observed progress of key in [0, 1], or false when no
// tracked operation is loading it.
func (l *Loader) Progress(key domain.ResourceKey) (float64, bool) {
	op, ok := l.slots.Lookup(key)
	if !ok {
		return 0, false
	}
	return op.Status().Progress, true
}
