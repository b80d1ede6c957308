// Package pipeline runs a concurrent extract → transform → load pass over a
// catalog source.
//
// A Pipeline owns two bounded queues and two long-lived stage goroutines:
//
//	caller goroutine        transform goroutine          load goroutine
//	Extract() ──put──► [transform queue] ──get──► enrich ──put──► [load queue] ──get──► Load()
//
// The calling goroutine drives the Extractor and pushes each batch into the
// transform queue, blocking while the queue is full. The transform stage fans
// each batch out to a bounded worker pool, one enrichment task per record with
// a lookup key, and waits for every task before handing the batch to the load
// stage. A failed enrichment leaves its record untouched and never fails the
// batch. The load stage persists batches in extraction order.
//
// When extraction ends, however it ends, exactly one end-of-stream marker is
// pushed into the transform queue. The transform stage forwards it to the
// load queue and exits; the load stage exits when it sees it. Run joins both
// stages before returning a Report describing the run.
//
// Queue capacity bounds the number of in-flight batches at each hand-off, so
// a slow store throttles extraction instead of growing memory.
package pipeline
