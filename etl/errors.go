package etl

import "errors"

var (
	// ErrSourceRequired is returned when no WikiArt source is provided.
	ErrSourceRequired = errors.New("source required")

	// ErrRepositoryRequired is returned when no painting repository is provided.
	ErrRepositoryRequired = errors.New("painting repository required")

	// ErrCheckpointRepositoryRequired is returned when no checkpoint repository is provided.
	ErrCheckpointRepositoryRequired = errors.New("checkpoint repository required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidMaxAttempts is returned when retry max attempts is invalid.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrVectorCount is returned when the embedder returns a different number
	// of vectors than texts.
	ErrVectorCount = errors.New("embedding count mismatch")
)
