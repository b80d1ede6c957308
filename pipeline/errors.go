package pipeline

import "errors"

var (
	// ErrETLRequired is returned when no ETL implementation is provided.
	ErrETLRequired = errors.New("etl implementation required")

	// ErrAlreadyRunning is returned when Run is called while a run is active.
	ErrAlreadyRunning = errors.New("pipeline is already running")

	// ErrInvalidWorkers is returned when the worker pool size is not positive.
	ErrInvalidWorkers = errors.New("workers must be greater than 0")

	// ErrInvalidQueueCapacity is returned when the queue capacity is not positive.
	ErrInvalidQueueCapacity = errors.New("queue capacity must be greater than 0")

	// ErrExtract wraps faults raised while producing batches.
	ErrExtract = errors.New("extraction failed")

	// ErrLoad wraps faults raised while persisting batches.
	ErrLoad = errors.New("load failed")

	// ErrTransform wraps faults that stop the transform stage itself.
	ErrTransform = errors.New("transform failed")

	// ErrEnrich wraps a single record's enrichment fault.
	ErrEnrich = errors.New("enrichment failed")
)
