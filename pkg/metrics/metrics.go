package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	videoProcessing = "video_processing"

	// Pipeline metrics
	pipelineRunsTotal         = "pipeline_runs_total"
	conversionDurationSeconds = "conversion_duration_seconds"

	// Labels
	pipelineOutcomeLabel = "outcome"
)

var pipelineRunsLabels = []string{
	pipelineOutcomeLabel,
}

/**
* Metrics definition
**/
var pipelineRunsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: videoProcessing,
		Name:      pipelineRunsTotal,
		Help:      "number of pipeline runs partitioned by terminal outcome",
	},
	pipelineRunsLabels,
)

var conversionDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: videoProcessing,
		Name:      conversionDurationSeconds,
		Help:      "wall-clock duration of the external conversion step",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	},
)

// IncreasePipelineRunsTotalMetric records one finished pipeline run with the
// given terminal outcome (committed, rejected, failed).
func IncreasePipelineRunsTotalMetric(outcome string) {
	labels := prometheus.Labels{
		pipelineOutcomeLabel: outcome,
	}
	pipelineRunsTotalMetric.With(labels).Inc()
}

// ObserveConversionDuration records the duration of one conversion in seconds.
func ObserveConversionDuration(seconds float64) {
	conversionDurationMetric.Observe(seconds)
}

// NewPrometheusMetricsHandler exposes the default registry over HTTP.
func NewPrometheusMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(pipelineRunsTotalMetric)
	prometheus.MustRegister(conversionDurationMetric)
}
