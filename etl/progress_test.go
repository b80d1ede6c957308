package etl

import (
	"bytes"
	"errors"
	"testing"

	"github.com/poiesic/artguide/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Increment(25)
	tracker.Increment(25)
	tracker.Increment(60)

	output := buf.String()
	assert.Contains(t, output, "100/100", "should cap at total")
	assert.Contains(t, output, "100.0%")
}

func TestProgressTracker_UnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 5)

	tracker.Start()
	tracker.Increment(7)

	assert.Contains(t, buf.String(), "Progress: 7 records")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 1)

	tracker.Increment(10)
	tracker.Finish()

	assert.Empty(t, buf.String())
}

func TestProgressTracker_Observer(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 1000)
	var observer pipeline.Observer = tracker

	tracker.Start()
	observer.BatchLoaded(3)
	observer.BatchLoaded(4)
	observer.EnrichmentFailed("p1", errors.New("x"))
	assert.Empty(t, buf.String(), "below report interval")

	observer.RunFinished(&pipeline.Report{})
	output := buf.String()
	assert.Contains(t, output, "7 records")
	assert.Contains(t, output, "1 enrichment failures")
	assert.Contains(t, output, " - done in ")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}
