// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/stagehand/internal/core/domain"
)

// LoadBackend deserializes and instantiates resources.
//
//go:generate go run go.uber.org/mock/mockgen -source=load_backend.go -destination=mocks/mock_load_backend.go -package=mocks
type LoadBackend interface {
	// Exists reports whether the key resolves to a loadable resource.
	Exists(key domain.ResourceKey) bool

	// LoadDescriptor loads the descriptor synchronously.
	// It returns domain.ErrKeyNotFound when the key does not resolve.
	LoadDescriptor(ctx context.Context, key domain.ResourceKey) (*domain.Descriptor, error)

	// BeginThreadedLoad starts loading the key on a backend worker.
	// Requesting a key that is already loading is not an error.
	BeginThreadedLoad(key domain.ResourceKey) error

	// PollThreadedLoad returns the current status of a threaded load.
	// It never blocks.
	PollThreadedLoad(key domain.ResourceKey) domain.LoadStatus

	// Instantiate builds a new instance from the descriptor.
	Instantiate(ctx context.Context, desc *domain.Descriptor) (*domain.Instance, error)
}
