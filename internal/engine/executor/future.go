package executor

import (
	"context"
	"sync"
)

// Future is the eventual result of a task.
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Completed returns a Future that is already complete with err.
func Completed(err error) *Future {
	f := newFuture()
	f.resolve(err)
	return f
}

func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the task completed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether the task completed.
func (f *Future) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err returns the task error, or nil while the task is still running.
func (f *Future) Err() error {
	if !f.Resolved() {
		return nil
	}
	return f.err
}

// Wait blocks until the task completed or ctx is done.
// Someone else must keep ticking the executor while Wait blocks.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
