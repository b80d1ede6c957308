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

package pipeline

import "github.com/poiesic/artguide/core"

// DefaultQueueCapacity is the number of batches each queue holds before Put blocks.
const DefaultQueueCapacity = 10

// Queue is a fixed-capacity FIFO. Put blocks while the queue is full and Get
// blocks while it is empty. There is no timeout or cancellation: every stage
// reading from a queue is guaranteed to eventually receive an end-of-stream item.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue holding up to capacity items.
// A capacity below 1 is raised to 1.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Put appends v, waiting for a free slot.
func (q *Queue[T]) Put(v T) {
	q.ch <- v
}

// Get removes and returns the oldest item, waiting until one is available.
func (q *Queue[T]) Get() T {
	return <-q.ch
}

// Len returns the number of items currently queued.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the fixed capacity of the queue.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}

// item is what moves through the stage queues: either a batch or the
// end-of-stream marker. An empty batch is still a batch.
type item struct {
	batch core.Batch
	seq   int
	eos   bool
}

func batchItem(seq int, batch core.Batch) item {
	return item{batch: batch, seq: seq}
}

func endOfStream() item {
	return item{eos: true}
}
