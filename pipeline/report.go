package pipeline

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Report summarizes one pipeline run. It is returned by Run whether the run
// completed normally or ended after a fault.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	BatchesExtracted int
	RecordsExtracted int

	// EnrichmentFailures counts records whose enrichment failed; those
	// records were still passed on with their original fields.
	EnrichmentFailures int

	BatchesLoaded int
	RecordsLoaded int

	// BatchesDropped counts batches that were extracted but never persisted
	// because a stage failed earlier in the run.
	BatchesDropped int
	RecordsDropped int

	ExtractErr   error
	TransformErr error
	LoadErr      error
}

func newReport() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// Err joins every fault recorded during the run, or returns nil.
func (r *Report) Err() error {
	return errors.Join(r.ExtractErr, r.TransformErr, r.LoadErr)
}

// Complete reports whether every extracted batch was persisted and the
// source was read to its end.
func (r *Report) Complete() bool {
	return r.Err() == nil && r.BatchesLoaded == r.BatchesExtracted
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("run_id", r.RunID),
		slog.Duration("duration", r.Duration()),
		slog.Int("batches_extracted", r.BatchesExtracted),
		slog.Int("records_extracted", r.RecordsExtracted),
		slog.Int("enrichment_failures", r.EnrichmentFailures),
		slog.Int("batches_loaded", r.BatchesLoaded),
		slog.Int("records_loaded", r.RecordsLoaded),
		slog.Int("batches_dropped", r.BatchesDropped),
		slog.Bool("complete", r.Complete()),
	}
	if err := r.Err(); err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	return slog.GroupValue(attrs...)
}
