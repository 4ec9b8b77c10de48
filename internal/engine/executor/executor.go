// Package executor implements the single-threaded cooperative executor that
// drives lifecycle tasks at tick boundaries.
//
// Every task runs on its own goroutine, but the executor hands a single baton
// between the host and the tasks: at any instant only the host or exactly one
// task is running. A task gives the baton back by suspending (Yield, Await) or
// by returning. Suspended tasks resume on the next Tick, in the order in which
// they suspended.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// ErrNotInTask is returned when Yield or Await is called outside a task
// spawned by the executor.
var ErrNotInTask = zerr.New("suspension point outside of an executor task")

// ErrClosed is returned by suspension points once the executor is closed.
var ErrClosed = zerr.New("executor closed")

// Executor is a cooperative single-threaded task executor.
type Executor struct {
	mu     sync.Mutex
	parked []*task
	ticks  uint64
	closed bool
}

type task struct {
	name    string
	owner   *Executor
	resume  chan struct{}
	handoff chan struct{}
}

type taskKey struct{}

// New creates a new Executor.
func New() *Executor {
	return &Executor{}
}

// Spawn starts fn as a task and runs it until its first suspension point or
// completion, then returns a Future for its result.
//
// Spawn must be called from the host or from a running task.
func (e *Executor) Spawn(ctx context.Context, name string, fn func(ctx context.Context) error) *Future {
	f := newFuture()
	t := &task{
		name:    name,
		owner:   e,
		resume:  make(chan struct{}),
		handoff: make(chan struct{}),
	}

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = zerr.With(zerr.New("task panicked"), "panic", fmt.Sprint(r))
			}
			f.resolve(err)
			t.handoff <- struct{}{}
		}()
		err = fn(context.WithValue(ctx, taskKey{}, t))
	}()

	<-t.handoff
	return f
}

// Yield suspends the calling task until the next Tick.
// It returns the context error, if any, once resumed, and ErrClosed when the
// executor was closed.
func (e *Executor) Yield(ctx context.Context) error {
	t, ok := ctx.Value(taskKey{}).(*task)
	if !ok || t.owner != e {
		return ErrNotInTask
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.parked = append(e.parked, t)
	e.mu.Unlock()

	t.handoff <- struct{}{}
	<-t.resume
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.isClosed() {
		return ErrClosed
	}
	return nil
}

func (e *Executor) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Await suspends the calling task until signal is closed, re-checking it once
// per tick. A nil signal completes immediately.
func (e *Executor) Await(ctx context.Context, signal <-chan struct{}) error {
	if signal == nil {
		return nil
	}
	for {
		select {
		case <-signal:
			return nil
		default:
		}
		if err := e.Yield(ctx); err != nil {
			return err
		}
	}
}

// Tick resumes every task suspended before this call, one at a time, each
// until it suspends again or completes. It returns the number of resumed tasks.
func (e *Executor) Tick() int {
	e.mu.Lock()
	batch := e.parked
	e.parked = nil
	e.ticks++
	e.mu.Unlock()

	for _, t := range batch {
		t.resume <- struct{}{}
		<-t.handoff
	}
	return len(batch)
}

// Close resumes every suspended task one last time; their suspension points
// return the context error or ErrClosed, so each task runs to completion
// before Close returns. Later suspensions fail with ErrClosed immediately.
//
// Close must be called from the host. It is safe to call more than once.
func (e *Executor) Close() {
	e.mu.Lock()
	e.closed = true
	batch := e.parked
	e.parked = nil
	e.mu.Unlock()

	for _, t := range batch {
		t.resume <- struct{}{}
		<-t.handoff
	}
}

// Pending returns the number of suspended tasks.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.parked)
}

// Ticks returns the number of ticks processed so far.
func (e *Executor) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// RunUntil ticks once per interval until f is resolved or ctx is done.
func (e *Executor) RunUntil(ctx context.Context, f *Future, interval time.Duration) error {
	if f.Resolved() {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !f.Resolved() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
	return nil
}
