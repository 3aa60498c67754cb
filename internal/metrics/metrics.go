// Package metrics holds the Prometheus collectors shared by handlers and
// services.
package metrics

import (
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReactionToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vixtube_reaction_toggles_total",
			Help: "Reaction toggles, by subject type, kind and resulting state.",
		},
		[]string{"subject_type", "kind", "result"},
	)

	ReactionConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vixtube_reaction_conflicts_total",
			Help: "Toggles rejected because a concurrent toggle by the same actor won.",
		},
		[]string{"subject_type", "kind"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vixtube_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vixtube_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vixtube_cache_hits_total",
			Help: "Total Redis cache hits.",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vixtube_cache_misses_total",
			Help: "Total Redis cache misses.",
		},
	)

	AIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vixtube_ai_requests_total",
			Help: "AI generation requests, by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	AIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vixtube_ai_request_duration_seconds",
			Help:    "AI generation latency, by provider.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vixtube_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open).",
		},
		[]string{"name"},
	)
)

var registerOnce sync.Once

// Init registers every collector, plus pool gauges when pool is non-nil.
// Safe to call more than once.
func Init(pool *pgxpool.Pool) {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ReactionToggles,
			ReactionConflicts,
			RequestDuration,
			RequestsInFlight,
			CacheHits,
			CacheMisses,
			AIRequests,
			AIDuration,
			CircuitBreakerState,
		)

		if pool == nil {
			return
		}
		prometheus.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "vixtube_db_connection_pool_active",
					Help: "Number of active database connections.",
				},
				func() float64 { return float64(pool.Stat().AcquiredConns()) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "vixtube_db_connection_pool_idle",
					Help: "Number of idle database connections.",
				},
				func() float64 { return float64(pool.Stat().IdleConns()) },
			),
		)
	})
}
