// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/stagehand/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	writers  []progrock.Writer
	rec      *progrock.Recorder
	activity *Activity

	mu  sync.Mutex
	seq map[string]int
}

// New creates a new Recorder writing to a tape and to an Activity tracker.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writers. An Activity
// tracker is always attached.
func NewRecorder(writers ...progrock.Writer) *Recorder {
	activity := NewActivity()
	writers = append(writers, activity)
	return &Recorder{
		writers:  writers,
		rec:      progrock.NewRecorder(multiWriter(writers)),
		activity: activity,
		seq:      make(map[string]int),
	}
}

// Activity returns the tracker holding the latest state of every vertex.
func (r *Recorder) Activity() *Activity {
	return r.activity
}

// Record starts recording a new vertex. The vertex group, if any, prefixes
// its name; repeated names get distinct digests.
func (r *Recorder) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	cfg := ports.VertexConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Group != "" {
		name = cfg.Group + " " + name
	}

	r.mu.Lock()
	r.seq[name]++
	d := digest.FromString(fmt.Sprintf("%s#%d", name, r.seq[name]))
	r.mu.Unlock()

	vertex := &Vertex{vertex: r.rec.Vertex(d, name)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	var errs []error
	for _, w := range r.writers {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}

type multiWriter []progrock.Writer

func (m multiWriter) WriteStatus(update *progrock.StatusUpdate) error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.WriteStatus(update))
	}
	return errors.Join(errs...)
}

// Close is a no-op; Recorder.Close closes each writer once.
func (m multiWriter) Close() error {
	return nil
}
