// Package worker scores queued survey records.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/growup/internal/adapters/mq/queue"
	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/internal/domain/model"
	"github.com/okian/growup/pkg/logger"
	"github.com/okian/growup/pkg/metrics"
)

// Scorer evaluates one observation. *growth.Calculator satisfies it.
type Scorer interface {
	Evaluate(ctx context.Context, obs growth.Observation) (growth.Result, error)
}

// Sink receives every outcome, scored or rejected.
type Sink interface {
	Put(ctx context.Context, seq int, out model.Outcome)
}

// Queue is the consumer side of queue.Queue.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until its queue is drained.
type Worker interface {
	Run(ctx context.Context)

	Shutdown(ctx context.Context) error
}

// InMemoryWorker reads jobs from a Queue, scores them and hands the outcome
// to a Sink. A rejected record is logged and reported, never fatal.
type InMemoryWorker struct {
	queue  Queue
	scorer Scorer
	sink   Sink
	name   string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, scorer Scorer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		scorer:   scorer,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes jobs until the queue channel closes, ctx is done, or Shutdown
// is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) {
	obs := j.Record.Observation
	indicator := obs.Indicator.String()

	start := time.Now()
	res, err := w.scorer.Evaluate(ctx, obs)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil {
		out := model.Rejection(j.Record, err)
		metrics.RecordObservationRejected(indicator, out.ErrKind)
		metrics.RecordErrorByComponent("worker", out.ErrKind)
		w.logger.Warn(ctx, "record rejected",
			logger.String("worker", w.name),
			logger.String("record_id", j.Record.ID),
			logger.Int("line", j.Record.Line),
			logger.String("indicator", indicator),
			logger.String("kind", out.ErrKind),
			logger.Error(err),
		)
		w.sink.Put(ctx, j.Seq, out)
		return
	}

	metrics.RecordObservationScored(indicator)
	if res.TailCorrected {
		metrics.RecordTailCorrection(indicator)
	}
	w.sink.Put(ctx, j.Seq, model.Scored(j.Record, res))
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	wg     sync.WaitGroup
	logger logger.Logger
}

// NewPool creates workerCount workers. A count below one uses NumCPU.
func NewPool(workerCount int, q Queue, scorer Scorer, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Nop(),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, scorer, sink, wopts...)
	}
	p.logger = p.workers[0].logger

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		w := w
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(ctx)
		}()
	}
}

// Wait blocks until every worker has returned, normally after the queue was
// closed and drained.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Shutdown closes the queue, if it can be closed, and waits for the workers
// to drain it or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		for _, w := range p.workers {
			w.shutdownOnce.Do(func() { close(w.shutdown) })
		}
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("pool shutdown: %w", ctx.Err())
	}
}
