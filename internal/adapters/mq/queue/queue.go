// Package queue holds survey records waiting to be scored.
package queue

import (
	"context"
	"sync"

	"github.com/okian/growup/internal/domain/model"
	"github.com/okian/growup/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Job is one record to score. Seq is its position in the submitted batch so
// results can be put back in input order.
type Job struct {
	Seq    int
	Record model.Record
}

// Queue provides enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job without blocking. It returns false when the queue is
	// full, closed, or ctx is done.
	Enqueue(ctx context.Context, j Job) bool

	// EnqueueWait blocks until the job is queued, the queue is closed, or ctx
	// is done. Close wakes blocked callers with ErrStopped.
	EnqueueWait(ctx context.Context, j Job) error

	// Dequeue returns the channel workers read from. It is closed, after
	// draining, once the queue is closed.
	Dequeue(ctx context.Context) <-chan Job

	Len(ctx context.Context) int

	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	// mu guards closed; senders hold the read lock so Close never races a send.
	mu     sync.RWMutex
	closed bool

	// stopping is closed first by Close so blocked senders let go of mu.
	stopping chan struct{}
	stopOnce sync.Once
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity, stopping: make(chan struct{})}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.rejected("closed")
		return false
	}
	if ctx.Err() != nil {
		q.rejected("context_cancelled")
		return false
	}

	select {
	case q.jobs <- j:
		metrics.UpdateQueueSize(len(q.jobs))
		return true
	default:
		q.rejected("queue_full")
		return false
	}
}

func (q *InMemoryQueue) EnqueueWait(ctx context.Context, j Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.rejected("closed")
		return ErrStopped
	}
	if err := ctx.Err(); err != nil {
		q.rejected("context_cancelled")
		return err
	}

	select {
	case q.jobs <- j:
		metrics.UpdateQueueSize(len(q.jobs))
		return nil
	case <-q.stopping:
		q.rejected("closed")
		return ErrStopped
	case <-ctx.Done():
		q.rejected("context_cancelled")
		return ctx.Err()
	}
}

func (q *InMemoryQueue) rejected(reason string) {
	metrics.RecordQueueEnqueueError(reason)
	metrics.RecordErrorByComponent("queue", reason)
}

func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	return size
}

// Close stops accepting jobs. Jobs already queued are still delivered.
func (q *InMemoryQueue) Close() error {
	q.stopOnce.Do(func() { close(q.stopping) })

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
