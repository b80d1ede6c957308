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

// Package storage provides the storage abstraction layer for artguide.
//
// This package defines repository interfaces that decouple the catalog store
// from the pipeline and search code. The BadgerDB implementation lives in
// the badger subpackage.
//
// # Architecture
//
//   - Repository: Operations shared by every repository
//   - PaintingRepository: Upsert, field updates, paged scroll and vector search
//   - CheckpointRepository: Per-processor progress through the store
//
// # Usage
//
// Open a backend and create repositories on top of it:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	paintings := badger.NewPaintingRepository(backend)
//
// Use in tests with in-memory storage:
//
//	paintings, checkpoints, backend, err := badger.NewMemoryRepositories()
//
// # Scrolling
//
// Scroll pages through all stored records in ID order. Pass 0 as the first
// offset and the returned offset on each following call until it is 0:
//
//	var offset core.ID
//	for {
//	    page, next, err := paintings.Scroll(ctx, offset, 100)
//	    ...
//	    if next == 0 {
//	        break
//	    }
//	    offset = next
//	}
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
