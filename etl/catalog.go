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

package etl

import (
	"context"
	"fmt"
	"iter"

	"github.com/poiesic/artguide/ai"
	"github.com/poiesic/artguide/core"
	"github.com/poiesic/artguide/pipeline"
	"github.com/poiesic/artguide/storage"
	"github.com/poiesic/artguide/wikiart"
)

// PaintingSource lists paintings and finds their Wikipedia articles.
// *wikiart.Client implements it.
type PaintingSource interface {
	MostViewedPaintings(ctx context.Context, token string) (*wikiart.Page, error)
	SearchWikipedia(ctx context.Context, title, artist string) (string, error)
}

// CatalogETL ingests WikiArt's most viewed paintings into the store.
//
// Extraction follows the listing's pagination tokens, pausing between pages,
// and regroups paintings into batches of the configured size. Each painting
// is enriched with the URL of its Wikipedia article. Loading embeds
// "<title> by <artist>" and upserts the batch, so re-running an ingest
// updates paintings in place.
type CatalogETL struct {
	source   PaintingSource
	repo     storage.PaintingRepository
	embedder ai.Embedder
	opts     options
}

var _ pipeline.ETL = (*CatalogETL)(nil)

// NewCatalogETL creates a catalog ingest ETL.
func NewCatalogETL(source PaintingSource, repo storage.PaintingRepository, embedder ai.Embedder, opts ...Option) (*CatalogETL, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	o.logger = o.logger.With("etl", "catalog")

	return &CatalogETL{
		source:   source,
		repo:     repo,
		embedder: embedder,
		opts:     o,
	}, nil
}

// Extract implements pipeline.Extractor.
func (e *CatalogETL) Extract(ctx context.Context) iter.Seq2[core.Batch, error] {
	return func(yield func(core.Batch, error) bool) {
		logger := e.opts.logger
		logger.Info("starting extraction", "batch_size", e.opts.batchSize)

		var pending core.Batch
		token := ""
		for page := 1; ; page++ {
			result, err := e.source.MostViewedPaintings(ctx, token)
			if err != nil {
				yield(nil, fmt.Errorf("fetching page %d: %w", page, err))
				return
			}
			if len(result.Data) == 0 {
				logger.Info("no paintings found", "page", page)
				break
			}

			for _, painting := range result.Data {
				if painting.ID == "" {
					logger.Warn("skipping painting without id", "title", painting.Title)
					continue
				}
				pending = append(pending, painting.Record())
			}

			for len(pending) >= e.opts.batchSize {
				batch := pending[:e.opts.batchSize:e.opts.batchSize]
				pending = pending[e.opts.batchSize:]
				logger.Info("extracted batch", "records", len(batch))
				if !yield(batch, nil) {
					return
				}
			}

			if !result.HasMore {
				break
			}
			if e.opts.maxPages > 0 && page >= e.opts.maxPages {
				logger.Info("reached page limit", "pages", page)
				break
			}
			token = result.PaginationToken
			if err := sleep(ctx, e.opts.pageDelay); err != nil {
				yield(nil, err)
				return
			}
		}

		if len(pending) > 0 {
			logger.Info("extracted final batch", "records", len(pending))
			yield(pending, nil)
		}
	}
}

// LookupKey implements pipeline.Enricher.
func (e *CatalogETL) LookupKey(record *core.Record) (string, bool) {
	return record.Field(wikiart.FieldWikiArtID)
}

// Enrich implements pipeline.Enricher. Paintings without both a title and an
// artist are not looked up.
func (e *CatalogETL) Enrich(ctx context.Context, key string, record *core.Record) (core.Fields, error) {
	title, hasTitle := record.Field(wikiart.FieldTitle)
	artist, hasArtist := record.Field(wikiart.FieldArtist)
	if !hasTitle || !hasArtist {
		return nil, nil
	}

	url, err := e.source.SearchWikipedia(ctx, title, artist)
	if err != nil {
		return nil, fmt.Errorf("wikipedia search for %s: %w", key, err)
	}
	if url == "" {
		return nil, nil
	}
	return core.Fields{wikiart.FieldURL: url}, nil
}

// Load implements pipeline.Loader.
func (e *CatalogETL) Load(ctx context.Context, batch core.Batch) error {
	if len(batch) == 0 {
		return nil
	}

	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = EmbeddingText(record)
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = e.embedder.EmbedTexts(ctx, texts)
		return err
	}, e.opts.retryAttempts, e.opts.retryDelay)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: %d vectors for %d records", ErrVectorCount, len(vectors), len(batch))
	}

	for i, record := range batch {
		record.Vector = core.NormalizeVector(vectors[i])
	}

	if _, err := e.repo.UpsertRecords(ctx, batch...); err != nil {
		return fmt.Errorf("storing batch: %w", err)
	}
	e.opts.logger.Info("loaded batch", "records", len(batch))
	return nil
}

// EmbeddingText returns the text a painting is indexed by:
// "<title> by <artist>", the title alone, or the key as a last resort.
func EmbeddingText(record *core.Record) string {
	title, hasTitle := record.Field(wikiart.FieldTitle)
	artist, hasArtist := record.Field(wikiart.FieldArtist)
	switch {
	case hasTitle && hasArtist:
		return title + " by " + artist
	case hasTitle:
		return title
	case hasArtist:
		return "painting by " + artist
	default:
		return record.Key
	}
}
