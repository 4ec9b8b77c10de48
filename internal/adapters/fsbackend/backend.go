// Package fsbackend implements the load backend over the filesystem.
//
// Resource keys are slash separated paths relative to the backend root. A
// descriptor carries the raw file bytes; instantiating it verifies the
// checksum and builds a Node.
package fsbackend

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var _ ports.LoadBackend = (*Backend)(nil)

// DefaultChunkSize is the read size of a threaded load.
const DefaultChunkSize = 32 * 1024

// Node is the object graph built from a file descriptor.
type Node struct {
	Path     string
	Content  []byte
	Checksum uint64
}

// Backend implements ports.LoadBackend.
type Backend struct {
	root       string
	logger     ports.Logger
	chunkSize  int
	chunkDelay time.Duration

	group   singleflight.Group
	workers errgroup.Group

	mu    sync.Mutex
	loads map[domain.ResourceKey]*threadedLoad

	live atomic.Int64
}

// Option configures a Backend.
type Option func(*Backend)

// WithChunkSize sets the read size of threaded loads.
func WithChunkSize(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.chunkSize = n
		}
	}
}

// WithChunkDelay pauses between chunks of a threaded load.
func WithChunkDelay(d time.Duration) Option {
	return func(b *Backend) {
		b.chunkDelay = d
	}
}

// New creates a Backend reading resources below root.
func New(root string, logger ports.Logger, opts ...Option) *Backend {
	b := &Backend{
		root:      filepath.Clean(root),
		logger:    logger,
		chunkSize: DefaultChunkSize,
		loads:     make(map[domain.ResourceKey]*threadedLoad),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Root returns the directory keys are resolved against.
func (b *Backend) Root() string {
	return b.root
}

// Live returns the number of instances that were created and not yet disposed.
func (b *Backend) Live() int64 {
	return b.live.Load()
}

func (b *Backend) resolve(key domain.ResourceKey) (string, bool) {
	rel := filepath.FromSlash(key.String())
	if key.IsZero() || !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.Join(b.root, rel), true
}

func notFound(key domain.ResourceKey) error {
	return zerr.With(zerr.Wrap(domain.ErrKeyNotFound, "resolve resource"), "key", key.String())
}

// Exists reports whether the key names a regular file below the root.
func (b *Backend) Exists(key domain.ResourceKey) bool {
	path, ok := b.resolve(key)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadDescriptor reads the file in one go. Concurrent calls for one key share
// a single read.
func (b *Backend) LoadDescriptor(ctx context.Context, key domain.ResourceKey) (*domain.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := b.resolve(key)
	if !ok {
		return nil, notFound(key)
	}

	v, err, _ := b.group.Do(path, func() (any, error) {
		//nolint:gosec // Path is confined to the backend root
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, readErr(key, err)
		}
		return newDescriptor(key, data), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Descriptor), nil
}

func readErr(key domain.ResourceKey, err error) error {
	if errors.Is(err, iofs.ErrNotExist) {
		return notFound(key)
	}
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrLoadFailed, err), "read resource"), "key", key.String())
}

func newDescriptor(key domain.ResourceKey, data []byte) *domain.Descriptor {
	return &domain.Descriptor{
		Key:      key,
		Payload:  data,
		Size:     int64(len(data)),
		Checksum: xxhash.Sum64(data),
		LoadedAt: time.Now(),
	}
}

// Instantiate builds a Node from a descriptor produced by this backend.
func (b *Backend) Instantiate(ctx context.Context, desc *domain.Descriptor) (*domain.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, zerr.Wrap(domain.ErrInstantiationFailed, "nil descriptor")
	}
	data, ok := desc.Payload.([]byte)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrInstantiationFailed, "unexpected payload"), "key", desc.Key.String())
	}
	if sum := xxhash.Sum64(data); sum != desc.Checksum {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInstantiationFailed, "checksum mismatch"),
			"key", desc.Key.String()), "checksum", sum)
	}

	node := &Node{
		Path:     desc.Key.String(),
		Content:  data,
		Checksum: desc.Checksum,
	}
	b.live.Add(1)
	return domain.NewInstance(uuid.NewString(), desc.Key, node, func() {
		b.live.Add(-1)
	}), nil
}

// Close waits for in-flight threaded loads to finish.
func (b *Backend) Close() error {
	return b.workers.Wait()
}
