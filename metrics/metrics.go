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

// Package metrics exports pipeline progress as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/poiesic/artguide/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "artguide"

// Stage label values.
const (
	StageExtracted   = "extracted"
	StageTransformed = "transformed"
	StageLoaded      = "loaded"
	StageDropped     = "dropped"
)

// Metrics holds the pipeline collectors registered with one registry.
type Metrics struct {
	batches            *prometheus.CounterVec
	records            *prometheus.CounterVec
	enrichmentFailures *prometheus.CounterVec
	runs               *prometheus.CounterVec
	runDuration        *prometheus.HistogramVec
	queueDepth         *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
// It panics if they are already registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_batches_total",
			Help:      "Batches that passed each pipeline stage.",
		}, []string{"etl", "stage"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_records_total",
			Help:      "Records that passed each pipeline stage.",
		}, []string{"etl", "stage"}),
		enrichmentFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_enrichment_failures_total",
			Help:      "Records whose enrichment failed.",
		}, []string{"etl"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Finished pipeline runs by outcome.",
		}, []string{"etl", "outcome"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Wall time of pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"etl"}),
		queueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_queue_depth",
			Help:      "Batches waiting in each pipeline queue.",
		}, []string{"etl", "queue"}),
	}
}

// Observer returns a pipeline.Observer recording into m under the given ETL name.
func (m *Metrics) Observer(etl string) pipeline.Observer {
	return &observer{metrics: m, etl: etl}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type observer struct {
	metrics *Metrics
	etl     string
}

var _ pipeline.Observer = (*observer)(nil)

func (o *observer) stage(stage string, records int) {
	o.metrics.batches.WithLabelValues(o.etl, stage).Inc()
	o.metrics.records.WithLabelValues(o.etl, stage).Add(float64(records))
}

func (o *observer) BatchExtracted(records int)   { o.stage(StageExtracted, records) }
func (o *observer) BatchTransformed(records int) { o.stage(StageTransformed, records) }
func (o *observer) BatchLoaded(records int)      { o.stage(StageLoaded, records) }
func (o *observer) BatchDropped(records int)     { o.stage(StageDropped, records) }

func (o *observer) EnrichmentFailed(string, error) {
	o.metrics.enrichmentFailures.WithLabelValues(o.etl).Inc()
}

func (o *observer) QueueDepth(queue string, depth int) {
	o.metrics.queueDepth.WithLabelValues(o.etl, queue).Set(float64(depth))
}

func (o *observer) RunFinished(report *pipeline.Report) {
	outcome := "complete"
	if !report.Complete() {
		outcome = "failed"
	}
	o.metrics.runs.WithLabelValues(o.etl, outcome).Inc()
	o.metrics.runDuration.WithLabelValues(o.etl).Observe(report.Duration().Seconds())
	o.metrics.queueDepth.WithLabelValues(o.etl, pipeline.TransformQueueName).Set(0)
	o.metrics.queueDepth.WithLabelValues(o.etl, pipeline.LoadQueueName).Set(0)
}
