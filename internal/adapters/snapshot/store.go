// Package snapshot persists the last cache snapshot of a run as JSON.
package snapshot

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SnapshotStore = (*Store)(nil)

// Store implements ports.SnapshotStore using a flat JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
	last *domain.CacheSnapshot
}

// NewStore creates a new SnapshotStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{path: filepath.Clean(path)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreReadFailed, err), "load snapshot store"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	var snap domain.CacheSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreReadFailed, err), "unmarshal snapshot store"), "path", s.path)
	}
	s.last = &snap
	return nil
}

func (s *Store) save(snap domain.CacheSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "marshal snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "create snapshot directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "create snapshot file"), "path", dir)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "write snapshot"), "path", s.path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "write snapshot"), "path", s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "replace snapshot"), "path", s.path)
	}
	return nil
}

// Get returns the last stored snapshot, or nil when none was stored.
func (s *Store) Get() (*domain.CacheSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return nil, nil
	}
	snap := *s.last
	return &snap, nil
}

// Put replaces the stored snapshot.
func (s *Store) Put(snap domain.CacheSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(snap); err != nil {
		return err
	}
	s.last = &snap
	return nil
}
