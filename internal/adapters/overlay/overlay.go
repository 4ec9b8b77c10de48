// Package overlay provides the transition overlays shown during a switch.
package overlay

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/stagehand/internal/core/ports"
)

var (
	_ ports.Overlay = (*Fade)(nil)
	_ ports.Overlay = Noop{}
)

// Fade is an overlay that takes a fixed time to fade in and out.
type Fade struct {
	in, out time.Duration

	mu      sync.Mutex
	visible bool
	shows   int
}

// NewFade creates a Fade overlay. Zero durations complete immediately.
func NewFade(in, out time.Duration) *Fade {
	return &Fade{in: in, out: out}
}

// Show starts the fade-in.
func (f *Fade) Show(ctx context.Context) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.visible = true
	f.shows++
	f.mu.Unlock()
	return after(f.in), nil
}

// Hide starts the fade-out.
func (f *Fade) Hide(ctx context.Context) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.visible = false
	f.mu.Unlock()
	return after(f.out), nil
}

// Visible reports whether the overlay was shown and not hidden since.
func (f *Fade) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Shows returns how often the overlay was shown.
func (f *Fade) Shows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shows
}

func after(d time.Duration) <-chan struct{} {
	if d <= 0 {
		return nil
	}
	done := make(chan struct{})
	time.AfterFunc(d, func() { close(done) })
	return done
}

// Noop is an overlay without any visual transition.
type Noop struct{}

// Show completes immediately.
func (Noop) Show(context.Context) (<-chan struct{}, error) { return nil, nil }

// Hide completes immediately.
func (Noop) Hide(context.Context) (<-chan struct{}, error) { return nil, nil }
