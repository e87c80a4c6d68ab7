package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	stageDurationSeconds *prometheus.HistogramVec
	runsTotal            *prometheus.CounterVec
	stageFailuresTotal   *prometheus.CounterVec
	requestsTotal        *prometheus.CounterVec
	latencySeconds       *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		stageDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evalio_stage_duration_seconds",
			Help:    "Duration of evaluation pipeline stages.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"})

		runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evalio_runs_total",
			Help: "Total number of evaluation runs by outcome.",
		}, []string{"status"})

		stageFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evalio_stage_failures_total",
			Help: "Total number of absorbed stage-level scoring failures.",
		}, []string{"stage"})

		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evalio_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evalio_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(stageDurationSeconds, runsTotal, stageFailuresTotal, requestsTotal, latencySeconds)
	})
}

// StageDuration exposes the stage duration histogram.
func StageDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return stageDurationSeconds
}

// Runs exposes the run outcome counter.
func Runs() *prometheus.CounterVec {
	RegisterMetrics()
	return runsTotal
}

// StageFailures exposes the absorbed scoring failure counter.
func StageFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return stageFailuresTotal
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}
