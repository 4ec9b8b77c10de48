// Package cache implements the descriptor and instance caches of the
// lifecycle engine on top of the shared LRU ordering.
package cache

import (
	"errors"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
)

// EnsureDetached removes every linkage between inst and the host container.
// It is idempotent and is the only place where cached or discarded instances
// are detached.
func EnsureDetached(container ports.Container, inst *domain.Instance) error {
	if container == nil || inst == nil {
		return nil
	}
	if !container.IsAttached(inst) {
		return nil
	}
	if err := container.Detach(inst); err != nil && !errors.Is(err, domain.ErrNotAttached) {
		return zerr.With(zerr.Wrap(err, "failed to detach instance"), "key", inst.Key.String())
	}
	return nil
}

// Discard detaches and disposes inst.
// Detach failures do not prevent disposal; both errors are returned joined.
func Discard(container ports.Container, inst *domain.Instance) error {
	if inst == nil {
		return nil
	}
	detachErr := EnsureDetached(container, inst)
	return errors.Join(detachErr, inst.Dispose())
}
