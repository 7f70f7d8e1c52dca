package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	progressRecomputations *prometheus.CounterVec
	rollupCacheTotal       *prometheus.CounterVec
	progressEventsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of v2 API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for v2 API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by v2 endpoints.",
		}, []string{"method", "route", "status"})

		progressRecomputations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_recomputations_total",
			Help: "Enrollment progress recomputations grouped by what triggered them.",
		}, []string{"trigger"})

		rollupCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollup_cache_total",
			Help: "Rollup cache lookups grouped by view and result.",
		}, []string{"view", "result"})

		progressEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_events_published_total",
			Help: "Progress change events handed to the message bus.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			progressRecomputations,
			rollupCacheTotal,
			progressEventsTotal,
		)
	})
}

// APIRequests exposes the counter for v2 requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for v2 requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for v2 error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ProgressRecomputations counts enrollment recomputations by trigger.
func ProgressRecomputations() *prometheus.CounterVec {
	RegisterMetrics()
	return progressRecomputations
}

// RollupCache counts cache hits and misses per rollup view.
func RollupCache() *prometheus.CounterVec {
	RegisterMetrics()
	return rollupCacheTotal
}

// ProgressEvents counts published progress events by outcome.
func ProgressEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return progressEventsTotal
}
