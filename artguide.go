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

package artguide

import (
	"errors"
	"log/slog"

	"github.com/poiesic/artguide/ai"
	"github.com/poiesic/artguide/ai/openai"
	"github.com/poiesic/artguide/etl"
	"github.com/poiesic/artguide/search"
	"github.com/poiesic/artguide/storage"
	"github.com/poiesic/artguide/storage/badger"
)

// Catalog owns the painting store and the embedder shared by every ETL run
// and search against it.
type Catalog struct {
	backend     *badger.Backend
	paintings   storage.PaintingRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	logger      *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the embedding endpoint configuration.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder uses the given embedder instead of creating one from the AI config.
func WithEmbedder(embedder ai.Embedder) CatalogOption {
	return func(o *catalogOptions) {
		o.embedder = embedder
	}
}

// WithInMemory keeps the store in memory; the path passed to OpenCatalog is ignored.
func WithInMemory() CatalogOption {
	return func(o *catalogOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the catalog logger.
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(o *catalogOptions) {
		o.logger = logger
	}
}

// OpenCatalog opens (creating if needed) the catalog stored at filePath.
func OpenCatalog(filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		if embedder, err = openai.NewEmbedder(options.aiConfig); err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		backend:     backend,
		paintings:   badger.NewPaintingRepository(backend),
		checkpoints: badger.NewCheckpointRepository(backend),
		embedder:    embedder,
		logger:      options.logger.With("component", "catalog"),
	}, nil
}

// Close releases the store.
func (c *Catalog) Close() error {
	err := c.paintings.Close()
	if berr := c.backend.Close(); berr != nil {
		c.logger.Error("error closing backend storage", "err", berr)
		err = errors.Join(err, berr)
	}
	return err
}

// Paintings returns the painting repository.
func (c *Catalog) Paintings() storage.PaintingRepository {
	return c.paintings
}

// Checkpoints returns the checkpoint repository.
func (c *Catalog) Checkpoints() storage.CheckpointRepository {
	return c.checkpoints
}

// NewCatalogETL builds the ETL that ingests WikiArt listings into the catalog.
func (c *Catalog) NewCatalogETL(source etl.PaintingSource, opts ...etl.Option) (*etl.CatalogETL, error) {
	return etl.NewCatalogETL(source, c.paintings, c.embedder, c.withLogger(opts)...)
}

// NewEnrichmentETL builds the ETL that refreshes stored paintings with WikiArt details.
func (c *Catalog) NewEnrichmentETL(source etl.DetailSource, opts ...etl.Option) (*etl.EnrichmentETL, error) {
	return etl.NewEnrichmentETL(source, c.paintings, c.checkpoints, c.withLogger(opts)...)
}

// NewSearcher builds a searcher over the catalog.
func (c *Catalog) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(c.logger)}, opts...)
	return search.NewSearcher(c.paintings, c.embedder, opts...)
}

// withLogger puts the catalog logger first so callers can override it.
func (c *Catalog) withLogger(opts []etl.Option) []etl.Option {
	return append([]etl.Option{etl.WithLogger(c.logger)}, opts...)
}
