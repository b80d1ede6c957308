package etl

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/artguide/pipeline"
)

// ProgressTracker reports pipeline progress to a writer. It implements
// pipeline.Observer; a total of 0 means the number of records is unknown.
type ProgressTracker struct {
	pipeline.NoopObserver

	writer         io.Writer
	total          int
	current        int
	failures       int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

var _ pipeline.Observer = (*ProgressTracker)(nil)

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of records expected, or 0 if unknown
// reportInterval: report progress every N loaded records
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.failures = 0
	p.lastReported = 0
}

// Increment increases the current progress by the specified amount.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current += delta
	if p.total > 0 && p.current > p.total {
		p.current = p.total
	}

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish prints final progress and the time since Start.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintf(p.writer, " - done in %s\n", time.Since(p.startTime).Round(time.Millisecond))
	p.started = false
}

// BatchLoaded implements pipeline.Observer.
func (p *ProgressTracker) BatchLoaded(records int) {
	p.Increment(records)
}

// EnrichmentFailed implements pipeline.Observer.
func (p *ProgressTracker) EnrichmentFailed(string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures++
}

// RunFinished implements pipeline.Observer.
func (p *ProgressTracker) RunFinished(*pipeline.Report) {
	p.Finish()
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	rate := 0.0
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.current) / elapsed
	}

	if p.total > 0 {
		percentage := float64(p.current) / float64(p.total) * 100.0
		fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f records/s - %d enrichment failures",
			p.current, p.total, percentage, rate, p.failures)
		return
	}
	fmt.Fprintf(p.writer, "\rProgress: %d records - %.1f records/s - %d enrichment failures",
		p.current, rate, p.failures)
}
