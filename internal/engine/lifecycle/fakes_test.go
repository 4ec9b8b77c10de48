package lifecycle_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.trai.ch/stagehand/internal/adapters/stage"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/engine/executor"
	"go.trai.ch/stagehand/internal/engine/lifecycle"
)

// fakeBackend finishes a threaded load of a key after the configured number
// of polls. Like the filesystem backend it keeps one load per key: a begin on
// a key still loading joins it, every poller sees the terminal result, and a
// begin after completion starts over.
type fakeBackend struct {
	polls      map[domain.ResourceKey]int
	failLoad   map[domain.ResourceKey]bool
	failCreate map[domain.ResourceKey]bool
	ready      map[domain.ResourceKey]chan struct{}
	begins     map[domain.ResourceKey]int
	syncLoads  map[domain.ResourceKey]int
	seen       map[domain.ResourceKey]int
	created    []*domain.Instance
	releases   map[string]int
}

func newFakeBackend(keys ...string) *fakeBackend {
	b := &fakeBackend{
		polls:      make(map[domain.ResourceKey]int),
		failLoad:   make(map[domain.ResourceKey]bool),
		failCreate: make(map[domain.ResourceKey]bool),
		ready:      make(map[domain.ResourceKey]chan struct{}),
		begins:     make(map[domain.ResourceKey]int),
		syncLoads:  make(map[domain.ResourceKey]int),
		seen:       make(map[domain.ResourceKey]int),
		releases:   make(map[string]int),
	}
	for _, k := range keys {
		b.polls[domain.NewResourceKey(k)] = 1
	}
	return b
}

func (b *fakeBackend) withPolls(key string, n int) *fakeBackend {
	b.polls[domain.NewResourceKey(key)] = n
	return b
}

func (b *fakeBackend) Exists(key domain.ResourceKey) bool {
	_, ok := b.polls[key]
	return ok
}

func (b *fakeBackend) LoadDescriptor(_ context.Context, key domain.ResourceKey) (*domain.Descriptor, error) {
	if !b.Exists(key) {
		return nil, domain.ErrKeyNotFound
	}
	b.syncLoads[key]++
	if b.failLoad[key] {
		return nil, domain.ErrLoadFailed
	}
	return &domain.Descriptor{Key: key}, nil
}

func (b *fakeBackend) BeginThreadedLoad(key domain.ResourceKey) error {
	if !b.Exists(key) {
		return domain.ErrKeyNotFound
	}
	b.begins[key]++
	if b.seen[key] >= b.polls[key] {
		b.seen[key] = 0
	}
	return nil
}

func (b *fakeBackend) PollThreadedLoad(key domain.ResourceKey) domain.LoadStatus {
	if b.begins[key] == 0 {
		return domain.LoadStatus{State: domain.PollFailed, Err: domain.ErrLoadFailed}
	}
	b.seen[key]++
	need := b.polls[key]
	if b.seen[key] < need {
		return domain.LoadStatus{State: domain.PollInProgress, Progress: float64(b.seen[key]) / float64(need)}
	}
	if b.failLoad[key] {
		return domain.LoadStatus{State: domain.PollFailed}
	}
	return domain.LoadStatus{State: domain.PollDone, Descriptor: &domain.Descriptor{Key: key}}
}

func (b *fakeBackend) Instantiate(_ context.Context, desc *domain.Descriptor) (*domain.Instance, error) {
	if b.failCreate[desc.Key] {
		return nil, nil
	}
	id := fmt.Sprintf("%s#%d", desc.Key, len(b.created))
	inst := domain.NewInstance(id, desc.Key, nil, func() { b.releases[id]++ })
	if ch, ok := b.ready[desc.Key]; ok {
		inst.Ready = ch
	}
	b.created = append(b.created, inst)
	return inst, nil
}

// fakeOverlay acknowledges Show through shown, which stays open until the
// test closes it when set.
type fakeOverlay struct {
	shown chan struct{}
	shows int
	hides int
}

func (o *fakeOverlay) Show(context.Context) (<-chan struct{}, error) {
	o.shows++
	if o.shown == nil {
		return nil, nil
	}
	return o.shown, nil
}

func (o *fakeOverlay) Hide(context.Context) (<-chan struct{}, error) {
	o.hides++
	return nil, nil
}

type closingOverlay struct {
	fakeOverlay
	closed int
}

func (o *closingOverlay) Close() error {
	o.closed++
	return nil
}

// recordingLogger keeps every logged error.
type recordingLogger struct {
	mu     sync.Mutex
	errors []error
}

func (l *recordingLogger) Info(string) {}
func (l *recordingLogger) Warn(string) {}
func (l *recordingLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

type harness struct {
	ctrl    *lifecycle.Controller
	exec    *executor.Executor
	stage   *stage.Stage
	backend *fakeBackend
	overlay *fakeOverlay
	logger  *recordingLogger
	events  []domain.Event
}

func newHarness(t *testing.T, cfg domain.Config, backend *fakeBackend) *harness {
	t.Helper()
	h := &harness{
		exec:    executor.New(),
		stage:   stage.New(),
		backend: backend,
		overlay: &fakeOverlay{},
		logger:  &recordingLogger{},
	}
	ctrl, err := lifecycle.New(cfg, backend, h.stage, h.overlay, h.logger, nil, h.exec)
	if err != nil {
		t.Fatalf("lifecycle.New: %v", err)
	}
	ctrl.Subscribe(func(ev domain.Event) {
		h.events = append(h.events, ev)
	})
	h.ctrl = ctrl
	return h
}

func syncConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.UseAsyncLoading = false
	return cfg
}

func asyncConfig() domain.Config {
	return domain.DefaultConfig()
}

func key(s string) domain.ResourceKey {
	return domain.NewResourceKey(s)
}

// settle ticks until f completes.
func (h *harness) settle(t *testing.T, f *executor.Future) error {
	t.Helper()
	for i := 0; i < 100 && !f.Resolved(); i++ {
		h.exec.Tick()
	}
	if !f.Resolved() {
		t.Fatalf("future did not complete after 100 ticks")
	}
	return f.Err()
}

func (h *harness) kinds(kinds ...domain.EventKind) []domain.Event {
	var out []domain.Event
	for _, ev := range h.events {
		for _, k := range kinds {
			if ev.Kind == k {
				out = append(out, ev)
			}
		}
	}
	return out
}

func newStage() *stage.Stage {
	return stage.New()
}
