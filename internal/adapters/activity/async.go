package activity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/ports/secondary"
)

// DefaultBuffer is the queue length used when NewAsync is given a non-positive size.
const DefaultBuffer = 256

// Async hands entries to a wrapped sink on a single background goroutine.
// Log never blocks: when the queue is full the entry is dropped and counted.
type Async struct {
	sink    secondary.ActivityLog
	queue   chan secondary.ActivityEntry
	done    chan struct{}
	closed  atomic.Bool
	dropped atomic.Int64
	mu      sync.RWMutex
	once    sync.Once
}

// NewAsync starts the delivery goroutine. Call Close to drain and stop it.
func NewAsync(sink secondary.ActivityLog, size int) *Async {
	if size <= 0 {
		size = DefaultBuffer
	}
	a := &Async{
		sink:  sink,
		queue: make(chan secondary.ActivityEntry, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		a.deliver(e)
	}
}

// deliver isolates the caller from a panicking sink.
func (a *Async) deliver(e secondary.ActivityEntry) {
	defer func() {
		if recover() != nil {
			a.dropped.Add(1)
		}
	}()
	a.sink.Log(context.Background(), e)
}

// Log enqueues e. The actor is resolved from ctx now, since ctx is not
// passed on to the sink.
func (a *Async) Log(ctx context.Context, e secondary.ActivityEntry) {
	if e.Actor == "" {
		e.Actor = ctxutil.Actor(ctx)
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed.Load() {
		a.dropped.Add(1)
		return
	}
	select {
	case a.queue <- e:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns how many entries were discarded.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting entries and waits until the queue is drained or ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed.Store(true)
		close(a.queue)
		a.mu.Unlock()
	})
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ secondary.ActivityLog = (*Async)(nil)
