package etl

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultBatchSize is the number of paintings per pipeline batch.
	DefaultBatchSize = 100

	// DefaultPageDelay is the pause between WikiArt listing pages.
	DefaultPageDelay = 500 * time.Millisecond

	// DefaultRetryAttempts is the number of embedding attempts per batch.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the delay before the first embedding retry.
	DefaultRetryDelay = time.Second
)

type options struct {
	batchSize     int
	pageDelay     time.Duration
	maxPages      int
	maxBatches    int
	restart       bool
	retryAttempts int
	retryDelay    time.Duration
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{
		batchSize:     DefaultBatchSize,
		pageDelay:     DefaultPageDelay,
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    DefaultRetryDelay,
		logger:        slog.Default(),
	}
}

func applyOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return o, err
		}
	}
	return o, nil
}

// Option configures a CatalogETL or an EnrichmentETL.
type Option func(*options) error

// WithBatchSize sets the number of records per batch.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(o *options) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
		}
		o.batchSize = size
		return nil
	}
}

// WithPageDelay sets the pause between listing pages. Catalog ingest only.
// Default is DefaultPageDelay.
func WithPageDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			d = 0
		}
		o.pageDelay = d
		return nil
	}
}

// WithMaxPages stops catalog extraction after n listing pages.
// Default is 0, which reads every page.
func WithMaxPages(n int) Option {
	return func(o *options) error {
		o.maxPages = max(n, 0)
		return nil
	}
}

// WithMaxBatches stops enrichment extraction after n batches.
// Default is 0, which reads the whole store.
func WithMaxBatches(n int) Option {
	return func(o *options) error {
		o.maxBatches = max(n, 0)
		return nil
	}
}

// WithRestart makes enrichment ignore and clear any saved checkpoint.
func WithRestart(restart bool) Option {
	return func(o *options) error {
		o.restart = restart
		return nil
	}
}

// WithRetry sets how often and how patiently embedding calls are retried.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(o *options) error {
		if attempts < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, attempts)
		}
		o.retryAttempts = attempts
		o.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}
