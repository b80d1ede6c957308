package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/artguide/core"
)

// loadStage persists batches from its input queue until end-of-stream.
// All fields are owned by the stage goroutine.
type loadStage struct {
	loader   Loader
	in       *Queue[item]
	observer Observer
	logger   *slog.Logger

	loaded         int
	loadedRecords  int
	dropped        int
	droppedRecords int
	err            error
}

// run returns the first load fault, if any. After a fault the stage stops
// writing but keeps consuming its queue so the stages upstream can finish.
func (s *loadStage) run(ctx context.Context) error {
	for {
		it := s.in.Get()
		if it.eos {
			s.logger.Info("load stage received end-of-stream")
			return s.err
		}
		s.observer.QueueDepth(LoadQueueName, s.in.Len())

		if s.err != nil {
			s.drop(it)
			continue
		}

		s.logger.Info("loading batch", "batch", it.seq, "records", len(it.batch))
		if err := s.load(ctx, it.batch); err != nil {
			s.err = fmt.Errorf("%w: batch %d: %w", ErrLoad, it.seq, err)
			s.logger.Error("error loading batch; discarding remaining batches", "batch", it.seq, "err", err)
			s.drop(it)
			continue
		}

		s.loaded++
		s.loadedRecords += len(it.batch)
		s.observer.BatchLoaded(len(it.batch))
	}
}

// load calls the loader, turning a panic into an error.
func (s *loadStage) load(ctx context.Context, batch core.Batch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.loader.Load(ctx, batch)
}

func (s *loadStage) drop(it item) {
	s.dropped++
	s.droppedRecords += len(it.batch)
	s.observer.BatchDropped(len(it.batch))
}
