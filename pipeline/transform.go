package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/artguide/core"
)

// transformStage enriches batches from its input queue and forwards them to
// its output queue. All fields are owned by the stage goroutine.
type transformStage struct {
	enricher Enricher
	pool     *ants.Pool
	in       *Queue[item]
	out      *Queue[item]
	observer Observer
	logger   *slog.Logger

	failures       int
	current        *item
	dropped        int
	droppedRecords int
	err            error
}

// enrichTask ties one submitted task to the record it enriches.
type enrichTask struct {
	index int
	key   string
}

// enrichOutcome is what a task reports back when it resolves.
type enrichOutcome struct {
	task   enrichTask
	fields core.Fields
	err    error
}

// run consumes batches until end-of-stream, which it forwards before returning.
func (s *transformStage) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrTransform, r)
			s.err = err
			s.logger.Error("transform stage failed; discarding remaining batches", "err", err)
			if s.current != nil {
				s.drop(*s.current)
				s.current = nil
			}
			s.abort()
		}
	}()

	for {
		it := s.in.Get()
		if it.eos {
			s.out.Put(it)
			s.logger.Info("transform stage received end-of-stream")
			return nil
		}
		s.current = &it
		s.observer.QueueDepth(TransformQueueName, s.in.Len())

		s.logger.Info("transforming batch", "batch", it.seq, "records", len(it.batch))
		s.enrichBatch(ctx, it.batch)

		s.current = nil
		s.out.Put(it)
		s.observer.BatchTransformed(len(it.batch))
		s.observer.QueueDepth(LoadQueueName, s.out.Len())
	}
}

// enrichBatch fans the batch out to the worker pool and waits for every task
// to resolve before merging results into their records.
func (s *transformStage) enrichBatch(ctx context.Context, batch core.Batch) {
	// Built before fan-out and only read afterwards.
	var tasks []enrichTask
	for i, record := range batch {
		if key, ok := s.enricher.LookupKey(record); ok {
			tasks = append(tasks, enrichTask{index: i, key: key})
		}
	}
	if len(tasks) == 0 {
		return
	}

	results := make(chan enrichOutcome, len(tasks))
	var wg sync.WaitGroup
	for _, task := range tasks {
		record := batch[task.index]
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			results <- s.enrichOne(ctx, task, record)
		})
		if submitErr != nil {
			wg.Done()
			results <- enrichOutcome{task: task, err: fmt.Errorf("%w: %w", ErrEnrich, submitErr)}
		}
	}
	wg.Wait()
	close(results)

	// Results arrive in completion order; each one only touches its own record.
	for res := range results {
		if res.err != nil {
			s.failures++
			s.logger.Error("error enriching record", "key", res.task.key, "err", res.err)
			s.observer.EnrichmentFailed(res.task.key, res.err)
			continue
		}
		record := batch[res.task.index]
		if record.Fields == nil {
			record.Fields = core.Fields{}
		}
		record.Fields.Merge(res.fields)
	}
}

// enrichOne runs a single enrichment call, turning a panic into a failure.
func (s *transformStage) enrichOne(ctx context.Context, task enrichTask, record *core.Record) (out enrichOutcome) {
	out.task = task
	defer func() {
		if r := recover(); r != nil {
			out.fields = nil
			out.err = fmt.Errorf("%w: panic: %v", ErrEnrich, r)
		}
	}()

	fields, err := s.enricher.Enrich(ctx, task.key, record)
	if err != nil {
		out.err = fmt.Errorf("%w: %w", ErrEnrich, err)
		return out
	}
	out.fields = fields
	return out
}

// abort discards input until end-of-stream and forwards it, so neither the
// extractor nor the load stage is left blocked.
func (s *transformStage) abort() {
	for it := s.in.Get(); !it.eos; it = s.in.Get() {
		s.drop(it)
	}
	s.out.Put(endOfStream())
}

func (s *transformStage) drop(it item) {
	s.dropped++
	s.droppedRecords += len(it.batch)
	s.observer.BatchDropped(len(it.batch))
}
