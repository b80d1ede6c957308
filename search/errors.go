package search

import "errors"

var (
	// ErrRepositoryRequired is returned when a painting repository is not provided.
	ErrRepositoryRequired = errors.New("painting repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidSimilarity is returned for a threshold outside [-1, 1].
	ErrInvalidSimilarity = errors.New("min similarity must be between -1 and 1")

	// ErrEmptyQuery is returned when the query has no text.
	ErrEmptyQuery = errors.New("query is empty")
)
