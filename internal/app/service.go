// Package service wires the batch scoring pipeline: dedupe, queue, workers.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/growup/internal/adapters/mq/queue"
	"github.com/okian/growup/internal/adapters/mq/worker"
	"github.com/okian/growup/internal/domain/dedupe"
	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/internal/domain/model"
	"github.com/okian/growup/pkg/logger"
	"github.com/okian/growup/pkg/metrics"
)

const (
	defaultQueueSize  = 10_000
	defaultDedupeSize = 100_000
)

// Service scores survey batches with a pool of workers. Each ScoreBatch call
// gets its own queue, deduper and pool, so a Service can be shared.
type Service struct {
	scorer worker.Scorer

	workerCount int
	queueSize   int
	dedupeSize  int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the initial deduper capacity. A batch larger than size
// still remembers every record ID.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a Service scoring with scorer, usually a *growth.Calculator.
func New(scorer worker.Scorer, opts ...Option) *Service {
	s := &Service{
		scorer:      scorer,
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outcomeSink stores each outcome at its batch position. Workers write
// distinct indices, so no lock is needed.
type outcomeSink []model.Outcome

func (s outcomeSink) Put(_ context.Context, seq int, out model.Outcome) {
	s[seq] = out
}

// ScoreBatch scores records and returns one outcome per record, in input
// order. Records whose ID repeats an earlier one are rejected as duplicates.
// Rejected records never fail the batch; an error means the batch itself was
// interrupted, e.g. by ctx.
func (s *Service) ScoreBatch(ctx context.Context, records []model.Record) ([]model.Outcome, error) {
	runID := uuid.NewString()
	log := s.logger.Named("batch")
	start := time.Now()

	outcomes := make(outcomeSink, len(records))
	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	// The whole batch is in memory already, so every ID must stay remembered.
	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(max(len(records), s.dedupeSize)))
	pool := worker.NewPool(s.workerCount, q, s.scorer, outcomes, worker.WithLogger(log))
	pool.Start(ctx)

	metrics.RecordBatchRecords(len(records))
	duplicates := 0
	for i, rec := range records {
		if seen.SeenAndRecord(ctx, rec.ID) {
			duplicates++
			metrics.RecordDuplicateRecord()
			out := model.Rejection(rec, fmt.Errorf("%w: %q", dedupe.ErrDuplicate, rec.ID))
			out.ErrKind = dedupe.KindDuplicate
			outcomes[i] = out
			continue
		}
		if rec.Err != nil {
			metrics.RecordObservationRejected(rec.Observation.Indicator.String(), growth.Kind(rec.Err))
			outcomes[i] = model.Rejection(rec, rec.Err)
			continue
		}
		if err := q.EnqueueWait(ctx, queue.Job{Seq: i, Record: rec}); err != nil {
			seen.Unrecord(ctx, rec.ID)
			_ = pool.Shutdown(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("batch %s interrupted at record %d: %w", runID, i, err)
		}
	}

	if err := pool.Shutdown(ctx); err != nil {
		return nil, fmt.Errorf("batch %s: %w", runID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", runID, err)
	}

	rejected := 0
	for _, o := range outcomes {
		if o.Rejected() {
			rejected++
		}
	}
	log.Info(ctx, "batch scored",
		logger.String("run_id", runID),
		logger.Int("records", len(records)),
		logger.Int("rejected", rejected),
		logger.Int("duplicates", duplicates),
		logger.Int("workers", pool.Size()),
		logger.Duration("elapsed", time.Since(start)),
	)
	return outcomes, nil
}
