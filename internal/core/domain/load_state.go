package domain

// LoadState is the state of a key inside the load slot.
type LoadState string

const (
	// LoadStateNotLoaded indicates nothing is being loaded for the key.
	LoadStateNotLoaded LoadState = "not_loaded"
	// LoadStateLoading indicates a load is in flight.
	LoadStateLoading LoadState = "loading"
	// LoadStateLoaded indicates the descriptor is available but not instantiated.
	LoadStateLoaded LoadState = "loaded"
	// LoadStateInstantiated indicates an instance was built from the descriptor.
	LoadStateInstantiated LoadState = "instantiated"
)

// IsPending reports whether the slot still holds data for its key
// (Loading or Loaded).
func (s LoadState) IsPending() bool {
	return s == LoadStateLoading || s == LoadStateLoaded
}

// LoadMode selects how a load operation runs.
type LoadMode int

const (
	// ModeAsync runs the load on a backend worker and is polled once per tick.
	ModeAsync LoadMode = iota
	// ModeSync blocks the current step until the descriptor is available.
	ModeSync
)

// String returns the string representation of the LoadMode.
func (m LoadMode) String() string {
	if m == ModeSync {
		return "sync"
	}
	return "async"
}

// PollState is the result state of polling a threaded load.
type PollState int

const (
	// PollInProgress means the load has not finished yet.
	PollInProgress PollState = iota
	// PollDone means the descriptor is available.
	PollDone
	// PollFailed means the load terminated without a descriptor.
	PollFailed
)

// String returns the string representation of the PollState.
func (p PollState) String() string {
	switch p {
	case PollDone:
		return "done"
	case PollFailed:
		return "failed"
	default:
		return "in_progress"
	}
}

// LoadStatus is a point-in-time view of a load operation.
type LoadStatus struct {
	State      PollState
	Progress   float64
	Descriptor *Descriptor
	Err        error
}

// IsTerminal reports whether the status is Done or Failed.
func (s LoadStatus) IsTerminal() bool {
	return s.State == PollDone || s.State == PollFailed
}
