package fsbackend

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
	"time"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

type threadedLoad struct {
	size int64
	read atomic.Int64
	done chan struct{}

	desc *domain.Descriptor
	err  error
}

func (l *threadedLoad) progress() float64 {
	if l.size <= 0 {
		return 0
	}
	return float64(l.read.Load()) / float64(l.size)
}

func (l *threadedLoad) finished() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// BeginThreadedLoad starts reading the file on a worker goroutine.
// A key that is still loading is joined; a key whose load has finished is
// read again from scratch.
func (b *Backend) BeginThreadedLoad(key domain.ResourceKey) error {
	path, ok := b.resolve(key)
	if !ok {
		return notFound(key)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.loads[key]; ok && !l.finished() {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return readErr(key, err)
	}
	if !info.Mode().IsRegular() {
		return notFound(key)
	}

	l := &threadedLoad{size: info.Size(), done: make(chan struct{})}
	b.loads[key] = l
	b.workers.Go(func() error {
		defer close(l.done)
		data, err := b.readChunked(path, l)
		if err != nil {
			l.err = readErr(key, err)
			b.logger.Warn("threaded load of " + key.String() + " failed")
			return nil
		}
		l.desc = newDescriptor(key, data)
		return nil
	})
	return nil
}

func (b *Backend) readChunked(path string, l *threadedLoad) ([]byte, error) {
	//nolint:gosec // Path is confined to the backend root
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // Read only

	data := make([]byte, 0, l.size)
	buf := make([]byte, b.chunkSize)
	for {
		n, err := f.Read(buf)
		data = append(data, buf[:n]...)
		l.read.Add(int64(n))
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
		if b.chunkDelay > 0 {
			time.Sleep(b.chunkDelay)
		}
	}
}

// PollThreadedLoad reports the state of a threaded load. A terminal result
// stays readable by every poller until the next BeginThreadedLoad for the key
// replaces it.
func (b *Backend) PollThreadedLoad(key domain.ResourceKey) domain.LoadStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.loads[key]
	if !ok {
		return domain.LoadStatus{
			State: domain.PollFailed,
			Err:   zerr.With(zerr.Wrap(domain.ErrLoadFailed, "no threaded load"), "key", key.String()),
		}
	}

	if !l.finished() {
		return domain.LoadStatus{State: domain.PollInProgress, Progress: l.progress()}
	}
	if l.err != nil {
		return domain.LoadStatus{State: domain.PollFailed, Progress: l.progress(), Err: l.err}
	}
	return domain.LoadStatus{State: domain.PollDone, Progress: 1, Descriptor: l.desc}
}
