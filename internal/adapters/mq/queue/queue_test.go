package queue

import (
	"context"
	"testing"
	"time"

	"github.com/okian/restio/internal/domain/types"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	change := types.NewChange("books", types.OpCreate, "isbn-1")
	if !q.Enqueue(ctx, change) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	out := q.Dequeue(ctx)
	got := <-out
	if got.ID != change.ID {
		t.Errorf("expected %q, got %q", change.ID, got.ID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, types.NewChange("authors", types.OpCreate, "a-1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, types.NewChange("authors", types.OpCreate, "a-2")) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, types.NewChange("authors", types.OpCreate, "a-3")) {
		t.Error("expected enqueue to fail on a full queue")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	queued := types.NewChange("publishers", types.OpUpdate, "p-1")
	if !q.Enqueue(ctx, queued) {
		t.Error("expected enqueue to succeed")
	}

	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}

	if q.Enqueue(ctx, types.NewChange("publishers", types.OpUpdate, "p-2")) {
		t.Error("expected enqueue to fail after close")
	}

	// Records queued before close are still delivered, then the
	// consumer channel closes.
	out := q.Dequeue(ctx)
	got, ok := <-out
	if !ok || got.ID != queued.ID {
		t.Errorf("expected queued record %q, got %q (ok=%v)", queued.ID, got.ID, ok)
	}
	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected consumer channel to close after drain")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for consumer channel to close")
	}
}

func TestInMemoryQueue_ContextCancellation(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())

	out := q.Dequeue(ctx)
	cancel()

	// The consumer goroutine stops once it observes cancellation. A record
	// handed over before the goroutine saw the cancellation is acceptable,
	// so close the queue to guarantee the channel drains either way.
	q.Enqueue(context.Background(), types.NewChange("books", types.OpDelete, "isbn-9"))
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for consumer channel to close")
		}
	}
}
