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

package core

import (
	"encoding/binary"
	"maps"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted records.
// It is derived from the record's source key using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fields is the set of named attributes describing one catalog item.
type Fields map[string]string

// Merge copies every entry of other into f, overwriting existing keys.
// Keys present only in f are kept.
func (f Fields) Merge(other Fields) {
	maps.Copy(f, other)
}

// Clone returns a shallow copy of f. A nil Fields clones to an empty map.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}

// Record describes one catalog item (an art piece).
// Fields are added or overwritten during enrichment but never removed.
type Record struct {
	Id         ID        // Persisted identifier, IDFromContent(Key) once stored
	Key        string    // Stable, source-provided key (e.g. the WikiArt painting id)
	Fields     Fields    // Title, artist, image URL and source-specific metadata
	Vector     []float32 // Embedding vector for similarity search (populated on load)
	InsertedAt time.Time // When the record was first written to the store
	UpdatedAt  time.Time // When the record was last written to the store
}

// NewRecord creates a record for the given source key with a copy of fields.
func NewRecord(key string, fields Fields) *Record {
	return &Record{
		Key:    key,
		Fields: fields.Clone(),
	}
}

// Field returns the value of a named field and whether it is set and non-empty.
func (r *Record) Field(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok && v != ""
}

// Batch is an ordered group of records moved as a unit between pipeline stages.
type Batch []*Record

// Keys returns the source keys of the batch in order.
func (b Batch) Keys() []string {
	keys := make([]string, len(b))
	for i, r := range b {
		keys[i] = r.Key
	}
	return keys
}

// Checkpoint tracks how far a processor has progressed through the store.
type Checkpoint struct {
	ProcessorType string
	LastID        ID
	UpdatedAt     time.Time
}

// SearchResult represents a search result with the full record and relevance score.
type SearchResult struct {
	Record *Record
	Score  float32
}
