package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stagehand/internal/adapters/snapshot"
	"go.trai.ch/stagehand/internal/core/domain"
)

func sampleSnapshot() domain.CacheSnapshot {
	return domain.CacheSnapshot{
		CurrentKey:  domain.NewResourceKey("levels/b.txt"),
		PreviousKey: domain.NewResourceKey("levels/a.txt"),
		Instances: []domain.CachedInstanceInfo{{
			Key:         domain.NewResourceKey("levels/a.txt"),
			ID:          "3f0c",
			AccessCount: 2,
			CachedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
		DescriptorKeys:      []domain.ResourceKey{domain.NewResourceKey("levels/c.txt")},
		InstanceCacheSize:   1,
		InstanceCapacity:    8,
		DescriptorCacheSize: 1,
		DescriptorCapacity:  20,
		LoadState:           domain.LoadStateNotLoaded,
		UseAsyncLoading:     true,
	}
}

func TestStore_PutAndGet(t *testing.T) {
	store, err := snapshot.NewStore(filepath.Join(t.TempDir(), ".stagehand", "state.json"))
	require.NoError(t, err)

	got, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Put(sampleSnapshot()))

	got, err = store.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleSnapshot(), *got)
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := snapshot.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(sampleSnapshot()))

	second, err := snapshot.NewStore(path)
	require.NoError(t, err)
	got, err := second.Get()
	require.NoError(t, err)
	require.NotNil(t, got)

	want := sampleSnapshot()
	assert.Equal(t, want.CurrentKey, got.CurrentKey)
	assert.Equal(t, want.DescriptorKeys, got.DescriptorKeys)
	assert.Equal(t, want.InstanceKeys(), got.InstanceKeys())
	assert.True(t, want.Instances[0].CachedAt.Equal(got.Instances[0].CachedAt))
	assert.True(t, got.LoadingKey.IsZero())
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := snapshot.NewStore(path)
	assert.ErrorIs(t, err, domain.ErrStoreReadFailed)
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	store, err := snapshot.NewStore(path)
	require.NoError(t, err)
	got, err := store.Get()
	require.NoError(t, err)
	assert.Nil(t, got)
}
