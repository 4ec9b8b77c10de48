package loader_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports/mocks"
	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/stagehand/internal/engine/loader"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	backend *mocks.MockLoadBackend
	exec    *executor.Executor
	loader  *loader.Loader
}

func newFixture(t *testing.T, slots loader.Slots) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	backend := mocks.NewMockLoadBackend(ctrl)
	exec := executor.New()
	return &fixture{
		backend: backend,
		exec:    exec,
		loader:  loader.New(backend, exec, slots, log),
	}
}

func TestLoader_AsyncPollsOncePerTick(t *testing.T) {
	f := newFixture(t, loader.NewSingleSlot())
	key := domain.NewResourceKey("level1")
	desc := &domain.Descriptor{Key: key}

	f.backend.EXPECT().BeginThreadedLoad(key).Return(nil)
	gomock.InOrder(
		f.backend.EXPECT().PollThreadedLoad(key).Return(domain.LoadStatus{State: domain.PollInProgress, Progress: 0.25}),
		f.backend.EXPECT().PollThreadedLoad(key).Return(domain.LoadStatus{State: domain.PollInProgress, Progress: 0.75}),
		f.backend.EXPECT().PollThreadedLoad(key).Return(domain.LoadStatus{State: domain.PollDone, Descriptor: desc}),
	)

	var status domain.LoadStatus
	fut := f.exec.Spawn(context.Background(), "load", func(ctx context.Context) error {
		op, err := f.loader.Begin(ctx, key, domain.ModeAsync)
		if err != nil {
			return err
		}
		status, err = f.loader.Wait(ctx, op)
		return err
	})

	progress, ok := f.loader.Progress(key)
	require.True(t, ok)
	assert.InDelta(t, 0.25, progress, 1e-9)

	f.exec.Tick()
	assert.False(t, fut.Resolved())
	f.exec.Tick()
	require.True(t, fut.Resolved())
	require.NoError(t, fut.Err())

	assert.Equal(t, domain.PollDone, status.State)
	assert.Same(t, desc, status.Descriptor)

	op := f.loader.Slots().Current()
	require.NotNil(t, op)
	assert.Equal(t, domain.LoadStateLoaded, op.State())
}

func TestLoader_FailureReleasesSlot(t *testing.T) {
	f := newFixture(t, loader.NewSingleSlot())
	key := domain.NewResourceKey("broken")

	f.backend.EXPECT().BeginThreadedLoad(key).Return(nil)
	f.backend.EXPECT().PollThreadedLoad(key).Return(domain.LoadStatus{State: domain.PollFailed})

	fut := f.exec.Spawn(context.Background(), "load", func(ctx context.Context) error {
		op, err := f.loader.Begin(ctx, key, domain.ModeAsync)
		if err != nil {
			return err
		}
		_, err = f.loader.Wait(ctx, op)
		return err
	})

	require.True(t, fut.Resolved())
	assert.True(t, errors.Is(fut.Err(), domain.ErrLoadFailed))
	assert.Nil(t, f.loader.Slots().Current())
}

func TestLoader_DoneWithoutDescriptorIsFailure(t *testing.T) {
	f := newFixture(t, loader.NewSingleSlot())
	key := domain.NewResourceKey("empty")

	f.backend.EXPECT().BeginThreadedLoad(key).Return(nil)
	f.backend.EXPECT().PollThreadedLoad(key).Return(domain.LoadStatus{State: domain.PollDone})

	fut := f.exec.Spawn(context.Background(), "load", func(ctx context.Context) error {
		op, err := f.loader.Begin(ctx, key, domain.ModeAsync)
		if err != nil {
			return err
		}
		_, err = f.loader.Wait(ctx, op)
		return err
	})
	assert.Equal(t, domain.KindLoadFailed, domain.KindOf(fut.Err()))
}

func TestLoader_SyncMode(t *testing.T) {
	f := newFixture(t, loader.NewSingleSlot())
	key := domain.NewResourceKey("sync")
	desc := &domain.Descriptor{Key: key}

	f.backend.EXPECT().LoadDescriptor(gomock.Any(), key).Return(desc, nil)

	op, err := f.loader.Begin(context.Background(), key, domain.ModeSync)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadStateLoaded, op.State())

	// A sync operation is terminal, so waiting never suspends.
	st, err := f.loader.Wait(context.Background(), op)
	require.NoError(t, err)
	assert.Same(t, desc, st.Descriptor)
}

func TestLoader_SyncModeKeyNotFound(t *testing.T) {
	f := newFixture(t, loader.NewSingleSlot())
	key := domain.NewResourceKey("missing")

	f.backend.EXPECT().LoadDescriptor(gomock.Any(), key).Return(nil, domain.ErrKeyNotFound)

	_, err := f.loader.Begin(context.Background(), key, domain.ModeSync)
	assert.Equal(t, domain.KindKeyNotFound, domain.KindOf(err))
	assert.Nil(t, f.loader.Slots().Current())
}

func TestLoader_BeginFailureTracksNothing(t *testing.T) {
	f := newFixture(t, loader.NewSingleSlot())
	key := domain.NewResourceKey("io")

	f.backend.EXPECT().BeginThreadedLoad(key).Return(errors.New("disk on fire"))

	_, err := f.loader.Begin(context.Background(), key, domain.ModeAsync)
	assert.Equal(t, domain.KindLoadFailed, domain.KindOf(err))
	assert.ErrorContains(t, err, "disk on fire")
	assert.Nil(t, f.loader.Slots().Current())
}

func TestSingleSlot_SecondKeyAbandonsFirst(t *testing.T) {
	f := newFixture(t, loader.NewSingleSlot())
	a, b := domain.NewResourceKey("a"), domain.NewResourceKey("b")

	f.backend.EXPECT().BeginThreadedLoad(gomock.Any()).Return(nil).Times(2)

	opA, err := f.loader.Begin(context.Background(), a, domain.ModeAsync)
	require.NoError(t, err)
	opB, err := f.loader.Begin(context.Background(), b, domain.ModeAsync)
	require.NoError(t, err)

	slots := f.loader.Slots()
	assert.False(t, slots.Owns(opA))
	assert.True(t, slots.Owns(opB))
	_, ok := slots.Lookup(a)
	assert.False(t, ok)
	got, ok := slots.Lookup(b)
	require.True(t, ok)
	assert.Same(t, opB, got)
}

func TestMultiSlot_TracksEachKey(t *testing.T) {
	slots := loader.NewMultiSlot()
	f := newFixture(t, slots)
	a, b := domain.NewResourceKey("a"), domain.NewResourceKey("b")

	f.backend.EXPECT().BeginThreadedLoad(gomock.Any()).Return(nil).Times(2)

	opA, err := f.loader.Begin(context.Background(), a, domain.ModeAsync)
	require.NoError(t, err)
	opB, err := f.loader.Begin(context.Background(), b, domain.ModeAsync)
	require.NoError(t, err)

	assert.True(t, slots.Owns(opA))
	assert.True(t, slots.Owns(opB))
	assert.Equal(t, 2, slots.Len())
	assert.Same(t, opB, slots.Current())

	slots.Release(opB)
	assert.Same(t, opA, slots.Current())

	slots.Reset()
	assert.Equal(t, 0, slots.Len())
	assert.Nil(t, slots.Current())
}

func TestNewSlots(t *testing.T) {
	assert.IsType(t, &loader.SingleSlot{}, loader.NewSlots(domain.SlotPolicySingle))
	assert.IsType(t, &loader.MultiSlot{}, loader.NewSlots(domain.SlotPolicyMulti))
	assert.IsType(t, &loader.SingleSlot{}, loader.NewSlots(""))
}
