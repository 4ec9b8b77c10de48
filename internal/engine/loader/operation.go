// Package loader implements load operations and the slot that tracks the
// in-flight background load.
package loader

import (
	"errors"
	"time"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
)

// Operation is one load of a resource key, either synchronous (terminal on
// creation) or threaded (polled once per tick).
type Operation struct {
	key       domain.ResourceKey
	mode      domain.LoadMode
	backend   ports.LoadBackend
	state     domain.LoadState
	status    domain.LoadStatus
	startedAt time.Time
}

// Key returns the resource key being loaded.
func (o *Operation) Key() domain.ResourceKey {
	return o.key
}

// StartedAt returns when the operation began.
func (o *Operation) StartedAt() time.Time {
	return o.startedAt
}

// State returns the load state of the operation's key.
func (o *Operation) State() domain.LoadState {
	return o.state
}

// Status returns the last observed status without polling the backend.
func (o *Operation) Status() domain.LoadStatus {
	return o.status
}

// Poll refreshes the status from the backend unless it is already terminal.
// A terminal status is sticky: later polls return it unchanged.
func (o *Operation) Poll() domain.LoadStatus {
	if o.status.IsTerminal() || o.mode == domain.ModeSync {
		return o.status
	}
	o.observe(o.backend.PollThreadedLoad(o.key))
	return o.status
}

// MarkInstantiated records that the descriptor was turned into an instance.
func (o *Operation) MarkInstantiated() {
	if o.state == domain.LoadStateLoaded {
		o.state = domain.LoadStateInstantiated
	}
}

func (o *Operation) observe(st domain.LoadStatus) {
	switch st.State {
	case domain.PollDone:
		if st.Descriptor == nil {
			st = domain.LoadStatus{State: domain.PollFailed, Err: zerr.Wrap(domain.ErrLoadFailed, "backend reported done without a descriptor")}
			break
		}
		st.Progress = 1
	case domain.PollFailed:
		st.Err = normalizeLoadErr(st.Err)
	case domain.PollInProgress:
		if st.Progress < o.status.Progress {
			st.Progress = o.status.Progress
		}
	}
	o.status = st

	switch st.State {
	case domain.PollDone:
		o.state = domain.LoadStateLoaded
	case domain.PollFailed:
		o.state = domain.LoadStateNotLoaded
	default:
		o.state = domain.LoadStateLoading
	}
}

// normalizeLoadErr keeps the KeyNotFound and LoadFailed classification of err
// and classifies everything else as a load failure.
func normalizeLoadErr(err error) error {
	switch {
	case err == nil:
		return zerr.Wrap(domain.ErrLoadFailed, "backend reported failure")
	case errors.Is(err, domain.ErrKeyNotFound), errors.Is(err, domain.ErrLoadFailed):
		return zerr.Wrap(err, "load resource")
	default:
		return zerr.Wrap(errors.Join(domain.ErrLoadFailed, err), "resource load failed")
	}
}
