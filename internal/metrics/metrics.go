// Package metrics exposes Prometheus collectors for the orchestration layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	generationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contentcore",
			Subsystem: "bridge",
			Name:      "requests_total",
			Help:      "Total number of generation requests by outcome.",
		},
		[]string{"outcome"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contentcore",
			Subsystem: "bridge",
			Name:      "request_duration_seconds",
			Help:      "Duration of generation requests.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"outcome"},
	)

	storeWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "contentcore",
			Subsystem: "storage",
			Name:      "write_failures_total",
			Help:      "Total number of failed persistent writes.",
		},
	)

	storeCorruptions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "contentcore",
			Subsystem: "storage",
			Name:      "corrupted_records_total",
			Help:      "Total number of records discarded as unreadable.",
		},
	)
)

func init() {
	Registry.MustRegister(
		generationRequests,
		generationDuration,
		storeWriteFailures,
		storeCorruptions,
	)
}

// Generation request outcomes.
const (
	OutcomeOK                = "ok"
	OutcomeMissingCredential = "missing_credential"
	OutcomeEmptyResponse     = "empty_response"
	OutcomeUpstreamError     = "upstream_error"
	OutcomeParseError        = "parse_error"
)

// ObserveGeneration records one generation request.
func ObserveGeneration(outcome string, d time.Duration) {
	generationRequests.WithLabelValues(outcome).Inc()
	generationDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordStoreWriteFailure counts a swallowed persistent-write failure.
func RecordStoreWriteFailure() {
	storeWriteFailures.Inc()
}

// RecordStoreCorruption counts a record discarded as unreadable.
func RecordStoreCorruption() {
	storeCorruptions.Inc()
}

// Handler returns an HTTP handler for the registry, for an application shell
// to mount wherever it serves diagnostics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
