package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyKey indicates the Key field is empty.
	ErrEmptyKey = errors.New("record key cannot be empty")

	// ErrIDMismatch indicates a persisted ID that does not match the record key.
	ErrIDMismatch = errors.New("record id does not match key")

	// ErrEmptyFieldName indicates a field with an empty name.
	ErrEmptyFieldName = errors.New("field name cannot be empty")

	// ErrInvalidCheckpoint indicates a Checkpoint failed validation.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)
