package fsbackend_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stagehand/internal/adapters/fsbackend"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T, opts ...fsbackend.Option) (*fsbackend.Backend, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "levels"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "levels", "a.txt"), []byte("alpha"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "levels", "big.txt"),
		[]byte(strings.Repeat("x", 1000)), 0o600))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	b := fsbackend.New(root, log, opts...)
	t.Cleanup(func() { _ = b.Close() })
	return b, root
}

func pollUntilTerminal(t *testing.T, b *fsbackend.Backend, key domain.ResourceKey) domain.LoadStatus {
	t.Helper()
	var status domain.LoadStatus
	require.Eventually(t, func() bool {
		status = b.PollThreadedLoad(key)
		return status.IsTerminal()
	}, 5*time.Second, time.Millisecond)
	return status
}

func TestBackend_Exists(t *testing.T) {
	b, _ := setup(t)

	assert.True(t, b.Exists(domain.NewResourceKey("levels/a.txt")))
	assert.False(t, b.Exists(domain.NewResourceKey("levels/missing.txt")))
	assert.False(t, b.Exists(domain.NewResourceKey("levels")), "directories are not resources")
	assert.False(t, b.Exists(domain.NewResourceKey("../escape.txt")))
	assert.False(t, b.Exists(domain.ResourceKey{}))
}

func TestBackend_LoadDescriptor(t *testing.T) {
	b, _ := setup(t)
	key := domain.NewResourceKey("levels/a.txt")

	desc, err := b.LoadDescriptor(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, key, desc.Key)
	assert.Equal(t, []byte("alpha"), desc.Payload)
	assert.Equal(t, int64(5), desc.Size)
	assert.Equal(t, xxhash.Sum64String("alpha"), desc.Checksum)
	assert.False(t, desc.LoadedAt.IsZero())
}

func TestBackend_LoadDescriptorMissing(t *testing.T) {
	b, _ := setup(t)

	_, err := b.LoadDescriptor(context.Background(), domain.NewResourceKey("levels/missing.txt"))
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	_, err = b.LoadDescriptor(context.Background(), domain.NewResourceKey("../../etc/passwd"))
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestBackend_LoadDescriptorCanceled(t *testing.T) {
	b, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.LoadDescriptor(ctx, domain.NewResourceKey("levels/a.txt"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackend_ThreadedLoad(t *testing.T) {
	b, _ := setup(t, fsbackend.WithChunkSize(100))
	key := domain.NewResourceKey("levels/big.txt")

	require.NoError(t, b.BeginThreadedLoad(key))
	require.NoError(t, b.BeginThreadedLoad(key), "a second begin for a loading key is not an error")

	status := pollUntilTerminal(t, b, key)
	require.Equal(t, domain.PollDone, status.State)
	assert.InDelta(t, 1.0, status.Progress, 1e-9)
	require.NotNil(t, status.Descriptor)
	assert.Equal(t, int64(1000), status.Descriptor.Size)

	again := b.PollThreadedLoad(key)
	assert.Equal(t, domain.PollDone, again.State, "every poller sees the terminal result")
	assert.Same(t, status.Descriptor, again.Descriptor)
}

func TestBackend_ThreadedLoadUnknownKey(t *testing.T) {
	b, _ := setup(t)

	status := b.PollThreadedLoad(domain.NewResourceKey("levels/a.txt"))
	assert.Equal(t, domain.PollFailed, status.State)
	assert.ErrorIs(t, status.Err, domain.ErrLoadFailed)
}

func TestBackend_ThreadedLoadRestartsAfterCompletion(t *testing.T) {
	b, root := setup(t)
	key := domain.NewResourceKey("levels/a.txt")

	require.NoError(t, b.BeginThreadedLoad(key))
	first := pollUntilTerminal(t, b, key)
	require.Equal(t, domain.PollDone, first.State)

	require.NoError(t, os.WriteFile(filepath.Join(root, "levels", "a.txt"), []byte("alpha2"), 0o600))
	require.NoError(t, b.BeginThreadedLoad(key))
	second := pollUntilTerminal(t, b, key)
	require.Equal(t, domain.PollDone, second.State)
	assert.NotSame(t, first.Descriptor, second.Descriptor)
	assert.Equal(t, []byte("alpha2"), second.Descriptor.Payload)
}

// An abandoned poller reading the result first must not take it away from a
// later poller of the same key.
func TestBackend_ThreadedLoadSharedByPollers(t *testing.T) {
	b, _ := setup(t, fsbackend.WithChunkSize(100), fsbackend.WithChunkDelay(time.Millisecond))
	key := domain.NewResourceKey("levels/big.txt")

	require.NoError(t, b.BeginThreadedLoad(key))
	require.NoError(t, b.BeginThreadedLoad(key))

	abandoned := pollUntilTerminal(t, b, key)
	joined := b.PollThreadedLoad(key)
	require.Equal(t, domain.PollDone, abandoned.State)
	require.Equal(t, domain.PollDone, joined.State)
	assert.Same(t, abandoned.Descriptor, joined.Descriptor)
}

func TestBackend_ThreadedLoadReportsProgress(t *testing.T) {
	b, _ := setup(t, fsbackend.WithChunkSize(100), fsbackend.WithChunkDelay(5*time.Millisecond))
	key := domain.NewResourceKey("levels/big.txt")
	require.NoError(t, b.BeginThreadedLoad(key))

	var seen []float64
	require.Eventually(t, func() bool {
		status := b.PollThreadedLoad(key)
		if status.State == domain.PollInProgress {
			seen = append(seen, status.Progress)
			return false
		}
		return status.State == domain.PollDone
	}, 5*time.Second, time.Millisecond)

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1], "progress never goes backwards")
	}
	assert.Less(t, seen[0], 1.0)
}

func TestBackend_BeginThreadedLoadMissing(t *testing.T) {
	b, _ := setup(t)

	err := b.BeginThreadedLoad(domain.NewResourceKey("levels/missing.txt"))
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestBackend_Instantiate(t *testing.T) {
	b, _ := setup(t)
	key := domain.NewResourceKey("levels/a.txt")
	desc, err := b.LoadDescriptor(context.Background(), key)
	require.NoError(t, err)

	first, err := b.Instantiate(context.Background(), desc)
	require.NoError(t, err)
	second, err := b.Instantiate(context.Background(), desc)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, key, first.Key)
	node, ok := first.Node.(*fsbackend.Node)
	require.True(t, ok)
	assert.Equal(t, "levels/a.txt", node.Path)
	assert.Equal(t, []byte("alpha"), node.Content)
	assert.Equal(t, int64(2), b.Live())

	require.NoError(t, first.Dispose())
	assert.Equal(t, int64(1), b.Live())
	require.ErrorIs(t, first.Dispose(), domain.ErrAlreadyDisposed)
	assert.Equal(t, int64(1), b.Live())
}

func TestBackend_InstantiateRejectsBadDescriptors(t *testing.T) {
	b, _ := setup(t)
	key := domain.NewResourceKey("levels/a.txt")

	tests := []struct {
		name string
		desc *domain.Descriptor
	}{
		{"nil", nil},
		{"foreign payload", &domain.Descriptor{Key: key, Payload: "alpha"}},
		{"checksum mismatch", &domain.Descriptor{Key: key, Payload: []byte("alpha"), Checksum: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Instantiate(context.Background(), tt.desc)
			assert.ErrorIs(t, err, domain.ErrInstantiationFailed)
		})
	}
	assert.Zero(t, b.Live())
}
