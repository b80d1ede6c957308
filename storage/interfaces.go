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

package storage

import (
	"context"

	"github.com/poiesic/artguide/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access. Calls
// made after the backing store is closed return ErrStorageClosed.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// PaintingRepository provides operations for managing catalog records.
type PaintingRepository interface {
	Repository

	// UpsertRecords writes one or more records.
	// The ID of each record is derived from its Key with core.IDFromContent,
	// so writing the same item twice replaces it instead of duplicating it.
	// InsertedAt is preserved for records that already exist.
	// Returns the records with IDs and timestamps populated.
	UpsertRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error)

	// UpdateFields merges the fields of each record into the stored record with
	// the same ID. Stored fields not present in the update are kept, and the
	// stored vector is left untouched.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateFields(ctx context.Context, records ...*core.Record) error

	// DeleteRecords removes records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...core.ID) error

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.Record, error)

	// GetRecords retrieves multiple records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...core.ID) ([]*core.Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Scroll returns up to limit records with IDs strictly greater than after,
	// ordered by ID. The second return value is the offset to pass to the next
	// call, or 0 when there are no more records.
	Scroll(ctx context.Context, after core.ID, limit int) ([]*core.Record, core.ID, error)

	// FindSimilar finds records whose vectors are similar to the given vector.
	// Returns records with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)
}

// CheckpointRepository persists processor progress through the store.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a processor type.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a processor type.
	// Deleting a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, processorType string) error
}
