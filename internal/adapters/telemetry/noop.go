// Package telemetry provides telemetry adapters that do not record anything.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports"
)

// Noop is a ports.Telemetry that discards everything.
type Noop struct{}

// NewNoop creates a new Noop telemetry.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns ctx carrying a vertex that discards everything.
func (t *Noop) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &NoopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (t *Noop) Close() error {
	return nil
}

// NoopVertex is a no-op implementation of ports.Vertex.
type NoopVertex struct{}

// Stdout returns io.Discard.
func (v *NoopVertex) Stdout() io.Writer {
	return io.Discard
}

// Log does nothing.
func (v *NoopVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoopVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoopVertex) Cached() {}
