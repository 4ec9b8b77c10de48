package domain

import (
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// Instance is an object graph constructed from a Descriptor.
//
// An Instance is either attached to the host container (active), detached and
// held by the instance cache, or disposed. Dispose may only succeed once.
type Instance struct {
	// ID is the unique identity of this instance.
	ID string
	// Key is the resource the instance was built from.
	Key ResourceKey
	// Node is the backend-specific object graph.
	Node any
	// CreatedAt is the instantiation time.
	CreatedAt time.Time
	// CachedAt is the last time the instance entered or was touched in the cache.
	CachedAt time.Time
	// AccessCount counts reuses from the instance cache.
	AccessCount int
	// Ready is closed once the instance finished its own setup.
	// A nil channel means the instance is ready on attach.
	Ready <-chan struct{}

	release  func()
	mu       sync.Mutex
	disposed bool
}

// NewInstance creates an Instance. release is invoked exactly once on Dispose
// and may be nil.
func NewInstance(id string, key ResourceKey, node any, release func()) *Instance {
	return &Instance{
		ID:        id,
		Key:       key,
		Node:      node,
		CreatedAt: time.Now(),
		release:   release,
	}
}

// IsReady reports whether the Ready signal has fired (or was never set).
func (i *Instance) IsReady() bool {
	if i.Ready == nil {
		return true
	}
	select {
	case <-i.Ready:
		return true
	default:
		return false
	}
}

// Disposed reports whether Dispose has been called successfully.
func (i *Instance) Disposed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.disposed
}

// Dispose destroys the instance. Calling it twice returns ErrAlreadyDisposed.
func (i *Instance) Dispose() error {
	i.mu.Lock()
	if i.disposed {
		i.mu.Unlock()
		return zerr.With(zerr.Wrap(ErrAlreadyDisposed, "dispose instance"), "instance", i.ID)
	}
	i.disposed = true
	release := i.release
	i.mu.Unlock()

	if release != nil {
		release()
	}
	return nil
}
