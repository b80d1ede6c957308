package etl

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/poiesic/artguide/core"
	"github.com/poiesic/artguide/pipeline"
	"github.com/poiesic/artguide/storage"
	"github.com/poiesic/artguide/wikiart"
)

// EnrichmentProcessor is the checkpoint name used by EnrichmentETL.
const EnrichmentProcessor = "wikiart-details"

// DetailSource fetches painting detail pages. *wikiart.Client implements it.
type DetailSource interface {
	PaintingDetails(ctx context.Context, id string) (*wikiart.Details, error)
}

// EnrichmentETL refreshes stored paintings with their museum and description.
//
// Extraction scrolls the store in ID order starting after the saved
// checkpoint. Loading merges the new fields into the stored records and
// advances the checkpoint, so an interrupted run resumes where it stopped.
type EnrichmentETL struct {
	source      DetailSource
	repo        storage.PaintingRepository
	checkpoints storage.CheckpointRepository
	opts        options
}

var _ pipeline.ETL = (*EnrichmentETL)(nil)

// NewEnrichmentETL creates a store enrichment ETL.
func NewEnrichmentETL(source DetailSource, repo storage.PaintingRepository, checkpoints storage.CheckpointRepository, opts ...Option) (*EnrichmentETL, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}

	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	o.logger = o.logger.With("etl", "enrichment")

	return &EnrichmentETL{
		source:      source,
		repo:        repo,
		checkpoints: checkpoints,
		opts:        o,
	}, nil
}

// Extract implements pipeline.Extractor.
func (e *EnrichmentETL) Extract(ctx context.Context) iter.Seq2[core.Batch, error] {
	return func(yield func(core.Batch, error) bool) {
		logger := e.opts.logger

		after, err := e.start(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		logger.Info("starting extraction", "after", after, "batch_size", e.opts.batchSize, "max_batches", e.opts.maxBatches)

		for batches := 0; e.opts.maxBatches == 0 || batches < e.opts.maxBatches; batches++ {
			page, next, err := e.repo.Scroll(ctx, after, e.opts.batchSize)
			if err != nil {
				yield(nil, fmt.Errorf("scrolling store after %d: %w", after, err))
				return
			}
			if len(page) == 0 {
				break
			}

			logger.Info("extracted batch", "records", len(page))
			if !yield(page, nil) {
				return
			}
			if next == 0 {
				break
			}
			after = next
		}
	}
}

// start returns the ID to resume after, clearing the checkpoint on restart.
func (e *EnrichmentETL) start(ctx context.Context) (core.ID, error) {
	if e.opts.restart {
		if err := e.checkpoints.DeleteCheckpoint(ctx, EnrichmentProcessor); err != nil {
			return 0, fmt.Errorf("clearing checkpoint: %w", err)
		}
		return 0, nil
	}

	checkpoint, err := e.checkpoints.LoadCheckpoint(ctx, EnrichmentProcessor)
	if err != nil {
		return 0, fmt.Errorf("loading checkpoint: %w", err)
	}
	if checkpoint == nil {
		return 0, nil
	}
	e.opts.logger.Info("resuming from checkpoint", "last_id", checkpoint.LastID, "updated_at", checkpoint.UpdatedAt)
	return checkpoint.LastID, nil
}

// LookupKey implements pipeline.Enricher.
func (e *EnrichmentETL) LookupKey(record *core.Record) (string, bool) {
	return record.Field(wikiart.FieldWikiArtID)
}

// Enrich implements pipeline.Enricher.
func (e *EnrichmentETL) Enrich(ctx context.Context, key string, record *core.Record) (core.Fields, error) {
	details, err := e.source.PaintingDetails(ctx, key)
	if err != nil {
		return nil, err
	}
	return details.Fields(), nil
}

// Load implements pipeline.Loader.
func (e *EnrichmentETL) Load(ctx context.Context, batch core.Batch) error {
	if len(batch) == 0 {
		return nil
	}

	if err := e.repo.UpdateFields(ctx, batch...); err != nil {
		return fmt.Errorf("updating batch: %w", err)
	}

	checkpoint := &core.Checkpoint{
		ProcessorType: EnrichmentProcessor,
		LastID:        batch[len(batch)-1].Id,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := e.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}

	e.opts.logger.Info("loaded batch", "records", len(batch), "checkpoint", checkpoint.LastID)
	return nil
}
