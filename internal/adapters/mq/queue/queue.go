// Package queue defines the contract for enqueuing and consuming change
// records bound for the audit journal.
//
// Implementations may use channels or more advanced structures. The
// in-memory bounded queue is the default.
package queue

import (
	"context"
	"sync"

	"github.com/okian/restio/internal/domain/types"
	"github.com/okian/restio/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 4096
)

// Change is the payload type flowing through the queue.
type Change = types.Change

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a change record to the queue.
	// Returns false if the queue is full or closed and the record was dropped.
	Enqueue(ctx context.Context, c Change) bool

	// Dequeue returns a channel receiving records as they become available.
	// The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Change

	// Len returns the current number of queued records.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, no new records can be
	// enqueued; already queued records are still delivered.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	changes  chan Change
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.changes = make(chan Change, q.capacity)

	metrics.UpdateAuditQueueCapacity(q.capacity)
	metrics.UpdateAuditQueueSize(0)
	return q
}

// Enqueue adds a change record to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c Change) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordAuditDropped("closed")
		return false
	}

	select {
	case q.changes <- c:
		metrics.RecordAuditEnqueued()
		metrics.UpdateAuditQueueSize(len(q.changes))
		return true
	case <-ctx.Done():
		metrics.RecordAuditDropped("context_cancelled")
		return false
	default:
		metrics.RecordAuditDropped("queue_full")
		return false
	}
}

// Dequeue returns a channel receiving change records as they arrive.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Change {
	out := make(chan Change)
	go func() {
		defer close(out)
		for c := range q.changes {
			select {
			case out <- c:
				metrics.UpdateAuditQueueSize(len(q.changes))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued records.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.changes)
	metrics.UpdateAuditQueueSize(size)
	return size
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}
	close(q.changes)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
