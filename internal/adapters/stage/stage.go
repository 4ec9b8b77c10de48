// Package stage implements an in-memory host container for instances.
package stage

import (
	"slices"
	"sync"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

// Stage implements ports.Container. Instances are kept in attach order and
// the most recently attached one is the active instance.
type Stage struct {
	mu       sync.RWMutex
	children []*domain.Instance
	attaches int
	detaches int
}

// New creates an empty Stage.
func New() *Stage {
	return &Stage{}
}

// Attach adds inst as the active instance.
func (s *Stage) Attach(inst *domain.Instance) error {
	if inst == nil {
		return zerr.New("cannot attach a nil instance")
	}
	if inst.Disposed() {
		return zerr.With(zerr.Wrap(domain.ErrAlreadyDisposed, "attach instance"), "key", inst.Key.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.children, inst) {
		return zerr.With(zerr.Wrap(domain.ErrAlreadyAttached, "attach instance"), "key", inst.Key.String())
	}
	s.children = append(s.children, inst)
	s.attaches++
	return nil
}

// Detach removes inst from the stage.
func (s *Stage) Detach(inst *domain.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.children, inst)
	if i < 0 {
		key := ""
		if inst != nil {
			key = inst.Key.String()
		}
		return zerr.With(zerr.Wrap(domain.ErrNotAttached, "detach instance"), "key", key)
	}
	s.children = slices.Delete(s.children, i, i+1)
	s.detaches++
	return nil
}

// IsAttached reports whether inst is on the stage.
func (s *Stage) IsAttached(inst *domain.Instance) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.children, inst)
}

// CurrentActive returns the most recently attached instance, or nil.
func (s *Stage) CurrentActive() *domain.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.children) == 0 {
		return nil
	}
	return s.children[len(s.children)-1]
}

// Children returns the attached instances in attach order.
func (s *Stage) Children() []*domain.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.children)
}

// Stats returns how many attaches and detaches the stage performed.
func (s *Stage) Stats() (attaches, detaches int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attaches, s.detaches
}
