package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/facepad/internal/domain/model"
)

func event(note string, v float64) model.InputEvent {
	return model.NewInputEvent(model.Action1, model.WithNote(note), model.WithValue(v))
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if got := q.Drain(ctx); got != nil {
		t.Errorf("expected nil drain on empty queue, got %v", got)
	}

	if err := q.Enqueue(ctx, event("keyboard", 1)); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := q.Drain(ctx)
	if len(got) != 1 || got[0].Note != "keyboard" {
		t.Errorf("unexpected drain result %v", got)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_DrainIsOrderedAndExhaustive(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(8))
	ctx := context.Background()

	for i, note := range []string{"A", "B", "C"} {
		if err := q.Enqueue(ctx, event(note, float64(i))); err != nil {
			t.Fatalf("enqueue %s: %v", note, err)
		}
	}

	got := q.Drain(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i, want := range []string{"A", "B", "C"} {
		if got[i].Note != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].Note)
		}
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected empty queue after drain, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if err := q.Enqueue(ctx, event("a", 1)); err != nil {
		t.Error("expected enqueue to succeed")
	}
	if err := q.Enqueue(ctx, event("b", 1)); err != nil {
		t.Error("expected enqueue to succeed")
	}

	if err := q.Enqueue(ctx, event("c", 1)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
	if q.Capacity() != 2 {
		t.Errorf("expected capacity 2, got %d", q.Capacity())
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, event("a", 1)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentProducers(t *testing.T) {
	numGoroutines := 10
	numEvents := 50
	q := NewInMemoryQueue(WithCapacity(numGoroutines * numEvents))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			note := fmt.Sprintf("face:player%d", id)
			for j := range numEvents {
				if err := q.Enqueue(ctx, event(note, float64(j))); err != nil {
					t.Errorf("enqueue: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	got := q.Drain(ctx)
	if len(got) != numGoroutines*numEvents {
		t.Fatalf("expected %d events, got %d", numGoroutines*numEvents, len(got))
	}

	// Per-producer order survives interleaving.
	last := map[string]float64{}
	for _, e := range got {
		if prev, ok := last[e.Note]; ok && e.Value <= prev {
			t.Fatalf("events from %s reordered: %v after %v", e.Note, e.Value, prev)
		}
		last[e.Note] = e.Value
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if err := q.Enqueue(ctx, event("a", 1)); err != nil {
		t.Error("expected enqueue to succeed")
	}
	if err := q.Enqueue(ctx, event("b", 1)); err != nil {
		t.Error("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	if err := q.Enqueue(ctx, event("c", 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Events buffered before Close are still delivered.
	if got := q.Drain(ctx); len(got) != 2 {
		t.Errorf("expected 2 buffered events after close, got %d", len(got))
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
