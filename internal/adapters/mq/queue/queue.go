// Package queue carries input events from producers on any goroutine to the
// single frame loop consumer.
//
// Producers call Enqueue concurrently. The frame loop calls Drain once per
// tick and receives everything queued so far in FIFO order, without blocking.
package queue

import (
	"context"
	"sync"

	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// untagged is the metric label for events without a producer note.
const untagged = "none"

// Queue provides non-blocking enqueue and drain semantics.
type Queue interface {
	// Enqueue adds an event. ErrQueueFull is returned when the queue is at
	// capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, e model.InputEvent) error

	// Drain removes and returns every event currently queued, oldest first.
	// It never blocks and returns nil when the queue is empty.
	Drain(ctx context.Context) []model.InputEvent

	// Len returns the current number of queued events.
	Len(ctx context.Context) int

	// Close stops accepting events. Events already queued remain drainable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan model.InputEvent
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.events = make(chan model.InputEvent, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Enqueue adds an event to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e model.InputEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordEventDropped("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordEventDropped("context_cancelled")
		return err
	}

	select {
	case q.events <- e:
		source := e.Note
		if source == "" {
			source = untagged
		}
		metrics.RecordEventEnqueued(source)
		q.updateGauges(len(q.events))
		return nil
	default:
		metrics.RecordEventDropped("queue_full")
		return ErrQueueFull
	}
}

// Drain removes every queued event without blocking.
func (q *InMemoryQueue) Drain(ctx context.Context) []model.InputEvent {
	// Events enqueued while draining are picked up on a later call; the
	// snapshot bounds a single drain against producers that never pause.
	n := len(q.events)
	if n == 0 {
		return nil
	}

	out := make([]model.InputEvent, 0, n)
	for range n {
		select {
		case e, ok := <-q.events:
			if !ok {
				q.updateGauges(0)
				return out
			}
			out = append(out, e)
		default:
			q.updateGauges(len(q.events))
			return out
		}
	}
	q.updateGauges(len(q.events))
	return out
}

// Len returns the current number of queued events.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.events)
	q.updateGauges(size)
	return size
}

// Close stops accepting new events.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Buffered events stay readable after close.
	close(q.events)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges(size int) {
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
