package core

import (
	"fmt"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//   - Field names must not be empty
//   - A non-zero Id must equal IDFromContent(Key)
//
// NOT validated (populated during the pipeline run):
//   - Vector (empty until the record is loaded)
//   - Id (0 until the record is stored)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyKey)
	}

	for name := range record.Fields {
		if name == "" {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyFieldName)
		}
	}

	if record.Id != 0 && record.Id != IDFromContent(record.Key) {
		return fmt.Errorf("%w: %w: key %q", ErrInvalidRecord, ErrIDMismatch, record.Key)
	}

	return nil
}

// ValidateBatch validates every record in a batch.
// Returns the first validation error encountered.
func ValidateBatch(batch Batch) error {
	for i, record := range batch {
		if err := ValidateRecord(record); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// ValidateCheckpoint validates a Checkpoint.
func ValidateCheckpoint(checkpoint *Checkpoint) error {
	if checkpoint == nil {
		return fmt.Errorf("%w: checkpoint is nil", ErrInvalidCheckpoint)
	}
	if checkpoint.ProcessorType == "" {
		return fmt.Errorf("%w: processor type is empty", ErrInvalidCheckpoint)
	}
	return nil
}
