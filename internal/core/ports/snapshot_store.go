package ports

import "go.trai.ch/stagehand/internal/core/domain"

// SnapshotStore persists the last cache snapshot between CLI invocations.
//
//go:generate go run go.uber.org/mock/mockgen -source=snapshot_store.go -destination=mocks/mock_snapshot_store.go -package=mocks
type SnapshotStore interface {
	// Get returns the stored snapshot. Returns nil, nil if none was stored.
	Get() (*domain.CacheSnapshot, error)
	// Put stores the snapshot.
	Put(snap domain.CacheSnapshot) error
}
