// Package monitoring exposes Prometheus metrics for hunt runs and upstream calls.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glow_hunter_runs_total",
		Help: "Hunt runs by final status.",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glow_hunter_run_duration_seconds",
		Help:    "Wall time of a hunt run.",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

	placesFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glow_hunter_places_found_total",
		Help: "Places returned by text search.",
	})

	rowsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glow_hunter_rows_appended_total",
		Help: "Rows appended to the destination.",
	})

	detailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glow_hunter_detail_failures_total",
		Help: "Place detail lookups that degraded to an empty detail.",
	})

	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glow_hunter_provider_requests_total",
		Help: "Places API requests by endpoint and provider status.",
	}, []string{"endpoint", "status"})
)

// ObserveRun records the outcome and duration of a run.
func ObserveRun(status string, elapsed time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(elapsed.Seconds())
}

// AddPlacesFound counts places returned by search.
func AddPlacesFound(n int) {
	placesFound.Add(float64(n))
}

// AddRowsAppended counts rows written to the destination.
func AddRowsAppended(n int) {
	rowsAppended.Add(float64(n))
}

// IncDetailFailure counts one degraded detail lookup.
func IncDetailFailure() {
	detailFailures.Inc()
}

// IncProviderRequest counts one Places request. Transport failures use status "error".
func IncProviderRequest(endpoint, status string) {
	providerRequests.WithLabelValues(endpoint, status).Inc()
}
