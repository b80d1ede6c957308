// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default number of concurrent enrichment tasks.
const DefaultWorkers = 5

// State is the lifecycle state of a Pipeline.
type State int32

const (
	// StateIdle means the pipeline has not been run yet.
	StateIdle State = iota
	// StateRunning means extraction is in progress.
	StateRunning
	// StateDraining means extraction has ended and the stages are finishing
	// the batches already queued.
	StateDraining
	// StateDone means the last run has returned. Done pipelines may be run again.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Pipeline runs an ETL through a transform stage and a load stage connected
// by bounded queues.
type Pipeline struct {
	etl           ETL
	workers       int
	queueCapacity int
	observer      Observer
	logger        *slog.Logger
	state         atomic.Int32
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithWorkers sets the maximum number of concurrent enrichment tasks.
// Default is DefaultWorkers.
func WithWorkers(workers int) Option {
	return func(p *Pipeline) error {
		if workers < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
		}
		p.workers = workers
		return nil
	}
}

// WithQueueCapacity sets the number of batches each queue holds.
// Default is DefaultQueueCapacity.
func WithQueueCapacity(capacity int) Option {
	return func(p *Pipeline) error {
		if capacity < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidQueueCapacity, capacity)
		}
		p.queueCapacity = capacity
		return nil
	}
}

// WithObserver sets an observer notified of run progress.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) error {
		if observer == nil {
			observer = NoopObserver{}
		}
		p.observer = observer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a pipeline for the given ETL.
func New(etl ETL, opts ...Option) (*Pipeline, error) {
	if etl == nil {
		return nil, ErrETLRequired
	}

	p := &Pipeline{
		etl:           etl,
		workers:       DefaultWorkers,
		queueCapacity: DefaultQueueCapacity,
		observer:      NoopObserver{},
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Run extracts every batch, enriches it and loads it, returning once both
// stages have finished. The returned Report is never nil unless the run
// could not start; the error joins every fault recorded in the Report.
//
// ctx is passed to the ETL collaborators. Cancelling it does not interrupt
// the queues; a well-behaved Extractor stops yielding, and the batches
// already queued are drained normally.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) &&
		!p.state.CompareAndSwap(int32(StateDone), int32(StateRunning)) {
		return nil, ErrAlreadyRunning
	}
	defer p.state.Store(int32(StateDone))

	report := newReport()
	logger := p.logger.With("run_id", report.RunID)

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	transformQueue := NewQueue[item](p.queueCapacity)
	loadQueue := NewQueue[item](p.queueCapacity)

	transform := &transformStage{
		enricher: p.etl,
		pool:     pool,
		in:       transformQueue,
		out:      loadQueue,
		observer: p.observer,
		logger:   logger.With("stage", "transform"),
	}
	load := &loadStage{
		loader:   p.etl,
		in:       loadQueue,
		observer: p.observer,
		logger:   logger.With("stage", "load"),
	}

	logger.Info("starting pipeline", "workers", p.workers, "queue_capacity", p.queueCapacity)

	var g errgroup.Group
	g.Go(func() error { return transform.run(ctx) })
	g.Go(func() error { return load.run(ctx) })

	report.ExtractErr = p.extract(ctx, transformQueue, report, logger)
	p.state.Store(int32(StateDraining))
	logger.Info("extraction finished; waiting for stages to drain",
		"batches", report.BatchesExtracted,
		"records", report.RecordsExtracted,
	)

	if err := g.Wait(); err != nil {
		logger.Error("pipeline stage failed", "err", err)
	}

	report.TransformErr = transform.err
	report.EnrichmentFailures = transform.failures
	report.LoadErr = load.err
	report.BatchesLoaded = load.loaded
	report.RecordsLoaded = load.loadedRecords
	report.BatchesDropped = transform.dropped + load.dropped
	report.RecordsDropped = transform.droppedRecords + load.droppedRecords
	report.FinishedAt = time.Now().UTC()

	p.observer.RunFinished(report)
	logger.Info("pipeline finished", "report", report)

	return report, report.Err()
}

// extract pulls batches from the Extractor into the transform queue. It
// always finishes by putting exactly one end-of-stream marker.
func (p *Pipeline) extract(ctx context.Context, queue *Queue[item], report *Report, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrExtract, r)
		}
		if err != nil {
			logger.Error("error extracting batches", "err", err)
		}
		queue.Put(endOfStream())
	}()

	seq := 0
	for batch, extractErr := range p.etl.Extract(ctx) {
		if extractErr != nil {
			return fmt.Errorf("%w: %w", ErrExtract, extractErr)
		}
		seq++
		queue.Put(batchItem(seq, batch))

		report.BatchesExtracted++
		report.RecordsExtracted += len(batch)
		logger.Debug("extracted batch", "batch", seq, "records", len(batch))
		p.observer.BatchExtracted(len(batch))
		p.observer.QueueDepth(TransformQueueName, queue.Len())
	}
	return nil
}
