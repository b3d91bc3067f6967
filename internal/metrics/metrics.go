// Package metrics exposes Prometheus instrumentation for caches, store queries and the façade.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheRequests counts cache lookups per cache and result (hit, miss).
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vkine_cache_requests_total",
			Help: "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)

	// CacheEvictions counts capacity evictions from FIFO caches.
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vkine_cache_evictions_total",
			Help: "Entries evicted from bounded caches",
		},
		[]string{"cache"},
	)

	// CoalescedFetches counts callers that attached to an in-flight fetch.
	CoalescedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vkine_coalesced_fetches_total",
			Help: "Requests served by sharing an in-flight store fetch",
		},
		[]string{"cache"},
	)

	// StoreQueryDuration tracks store round trips.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vkine_store_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// StoreQueryErrors counts failed store queries.
	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vkine_store_query_errors_total",
			Help: "Failed store queries",
		},
		[]string{"operation"},
	)

	// Degraded counts façade operations that returned an empty result because of a failure.
	Degraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vkine_degraded_total",
			Help: "Queries answered with an empty result after a store failure",
		},
		[]string{"operation"},
	)

	// CircuitBreakerState is 0 when closed, 1 when half-open, 2 when open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vkine_circuit_breaker_state",
			Help: "Store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vkine_circuit_breaker_transitions_total",
			Help: "Store circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTPRequestDuration tracks API latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vkine_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route", "status"},
	)
)

// Hit records a cache hit.
func Hit(cache string) { CacheRequests.WithLabelValues(cache, "hit").Inc() }

// Miss records a cache miss.
func Miss(cache string) { CacheRequests.WithLabelValues(cache, "miss").Inc() }

// ObserveStoreQuery records duration and failure of a store call started at start.
func ObserveStoreQuery(operation string, start time.Time, err error) {
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation).Inc()
	}
}
