package pipeline

import (
	"context"
	"iter"

	"github.com/poiesic/artguide/core"
)

// Extractor produces the batches of one run.
//
// The returned sequence is pulled lazily on the calling goroutine; each yield
// blocks until the batch has been accepted by the transform queue. Ending the
// sequence means the source is exhausted. Yielding a non-nil error ends
// extraction as a fault: the pipeline stops pulling, still drains the batches
// already queued, and reports the error. Implementations may pace their own
// fetches; the pipeline only sees batch arrival latency.
type Extractor interface {
	Extract(ctx context.Context) iter.Seq2[core.Batch, error]
}

// Enricher looks up additional fields for a single record.
//
// Enrich is called concurrently for different records of the same batch and
// must not modify the record it is given; the returned fields are merged into
// the record by the pipeline, overwriting fields with the same name.
type Enricher interface {
	// LookupKey returns the key used to enrich the record.
	// Records without a key are passed through untouched.
	LookupKey(record *core.Record) (string, bool)

	// Enrich returns the fields to merge into the record identified by key.
	Enrich(ctx context.Context, key string, record *core.Record) (core.Fields, error)
}

// Loader persists enriched batches.
// A Load error is fatal to the load stage for the rest of the run.
type Loader interface {
	Load(ctx context.Context, batch core.Batch) error
}

// ETL is the full contract a catalog source implements to be run by a Pipeline.
type ETL interface {
	Extractor
	Enricher
	Loader
}

// Observer receives progress notifications from a running pipeline.
// Callbacks are invoked from the stage goroutines and must not block.
type Observer interface {
	// BatchExtracted is called after a batch was accepted by the transform queue.
	BatchExtracted(records int)

	// EnrichmentFailed is called once per record whose enrichment failed.
	EnrichmentFailed(key string, err error)

	// BatchTransformed is called after a batch was handed to the load queue.
	BatchTransformed(records int)

	// BatchLoaded is called after a batch was persisted.
	BatchLoaded(records int)

	// BatchDropped is called for each batch discarded after a load fault.
	BatchDropped(records int)

	// QueueDepth reports the number of batches waiting in a named queue.
	QueueDepth(queue string, depth int)

	// RunFinished is called once when Run returns.
	RunFinished(report *Report)
}

// Queue names reported through Observer.QueueDepth.
const (
	TransformQueueName = "transform"
	LoadQueueName      = "load"
)

// NoopObserver implements Observer with no-ops. Embed it to implement only
// the callbacks you need.
type NoopObserver struct{}

var _ Observer = NoopObserver{}

func (NoopObserver) BatchExtracted(int)             {}
func (NoopObserver) EnrichmentFailed(string, error) {}
func (NoopObserver) BatchTransformed(int)           {}
func (NoopObserver) BatchLoaded(int)                {}
func (NoopObserver) BatchDropped(int)               {}
func (NoopObserver) QueueDepth(string, int)         {}
func (NoopObserver) RunFinished(*Report)            {}

// Observers fans every callback out to each observer in order.
type Observers []Observer

var _ Observer = Observers(nil)

func (o Observers) BatchExtracted(records int) {
	for _, obs := range o {
		obs.BatchExtracted(records)
	}
}

func (o Observers) EnrichmentFailed(key string, err error) {
	for _, obs := range o {
		obs.EnrichmentFailed(key, err)
	}
}

func (o Observers) BatchTransformed(records int) {
	for _, obs := range o {
		obs.BatchTransformed(records)
	}
}

func (o Observers) BatchLoaded(records int) {
	for _, obs := range o {
		obs.BatchLoaded(records)
	}
}

func (o Observers) BatchDropped(records int) {
	for _, obs := range o {
		obs.BatchDropped(records)
	}
}

func (o Observers) QueueDepth(queue string, depth int) {
	for _, obs := range o {
		obs.QueueDepth(queue, depth)
	}
}

func (o Observers) RunFinished(report *Report) {
	for _, obs := range o {
		obs.RunFinished(report)
	}
}
