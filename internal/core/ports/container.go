package ports

import "go.trai.ch/stagehand/internal/core/domain"

// Container is the host's root container holding the active graph.
//
//go:generate go run go.uber.org/mock/mockgen -source=container.go -destination=mocks/mock_container.go -package=mocks
type Container interface {
	// Attach adds the instance under the root and makes it the active one.
	Attach(inst *domain.Instance) error
	// Detach removes every parent/child linkage between the instance and the root.
	Detach(inst *domain.Instance) error
	// IsAttached reports whether the instance still has a parent in the container.
	IsAttached(inst *domain.Instance) bool
	// CurrentActive returns the active instance, or nil.
	CurrentActive() *domain.Instance
}
