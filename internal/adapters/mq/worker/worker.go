// Package worker defines workers draining the audit queue into the
// change journal.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/restio/internal/domain/dedupe"
	"github.com/okian/restio/internal/domain/types"
	"github.com/okian/restio/pkg/logger"
	"github.com/okian/restio/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Change abstracts what workers read off the queue.
type Change = types.Change

// Journal persists change records.
type Journal interface {
	Append(ctx context.Context, c Change) error
}

// Queue defines how workers receive change records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Change
}

// Worker drains change records into the journal.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing change records.
type InMemoryWorker struct {
	queue   Queue
	journal Journal
	deduper dedupe.Deduper
	name    string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options. A
// nil deduper disables duplicate suppression.
func NewInMemoryWorker(queue Queue, journal Journal, deduper dedupe.Deduper, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		journal:  journal,
		deduper:  deduper,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	changes := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := w.processChange(ctx, c); err != nil {
				w.logger.Error(ctx, "error recording change", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processChange records a single change.
func (w *InMemoryWorker) processChange(ctx context.Context, c Change) error {
	if w.deduper != nil && w.deduper.SeenAndRecord(ctx, c.ID) {
		metrics.RecordAuditDuplicate()
		return nil
	}

	if err := w.journal.Append(ctx, c); err != nil {
		// Let a retry of this record through the deduper.
		if w.deduper != nil {
			w.deduper.Unrecord(ctx, c.ID)
		}
		return fmt.Errorf("failed to journal change %s: %w", c.ID, err)
	}

	metrics.RecordAuditProcessed()
	w.logger.Debug(ctx, "change recorded",
		logger.String("resource", c.Resource),
		logger.String("op", c.Op),
		logger.String("key", c.Key),
	)
	return nil
}

// Pool manages multiple workers draining the same queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool. A count below 1 defaults to the number
// of CPUs.
func NewPool(workerCount int, queue Queue, journal Journal, deduper dedupe.Deduper) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			journal,
			deduper,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop stops all workers without waiting for the queue to drain.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, worker := range p.workers {
		close(worker.shutdown)
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
