// Package observability holds the prometheus collectors and the tracer shared across layers.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncvote_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by key space and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncvote_cache_lookups_total",
		Help: "Cache lookups by key space and result (hit, miss, error)",
	}, []string{"space", "result"})

	// StoreLatency records document store latency by operation and collection.
	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "syncvote_store_latency_seconds",
		Help:    "Document store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "collection"})

	// VotesTotal counts vote attempts by target type, vote type and result.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncvote_votes_total",
		Help: "Vote attempts by target type, vote type and result",
	}, []string{"target_type", "vote_type", "result"})

	// ReconcileRuns counts counter reconciliation runs by result.
	ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncvote_reconcile_runs_total",
		Help: "Counter reconciliation runs by result",
	}, []string{"result"})

	// ReconciledTargets counts targets whose counters were repaired.
	ReconciledTargets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncvote_reconciled_targets_total",
		Help: "Targets whose like/dislike counters were rewritten by reconciliation",
	})
)

// TrackStore returns a function that records the store latency when called (e.g. defer).
func TrackStore(operation, collection string) func() {
	start := time.Now()
	return func() {
		StoreLatency.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
	}
}
