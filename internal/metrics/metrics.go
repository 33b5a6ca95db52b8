// Package metrics holds the Prometheus collectors of the service. Nothing is
// registered until Register runs, so tests can use the collectors directly.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "furnimatch"

var latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

// Embedding provider calls, labelled by provider and model.
var (
	EmbeddingRequestsTotal   = counter("embedding_requests_total", "Embedding provider requests", "provider", "model", "status")
	EmbeddingRequestDuration = histogram("embedding_request_duration_seconds", "Embedding provider latency", latencyBuckets, "provider", "model")
	EmbeddingTokensTotal     = counter("embedding_tokens_total", "Tokens billed by the embedding provider", "provider", "model", "type")
	EmbeddingErrorsTotal     = counter("embedding_errors_total", "Embedding provider failures", "provider", "model", "error_type")

	// EmbeddingCacheTotal counts query-cache lookups: result is hit or miss.
	EmbeddingCacheTotal = counter("embedding_cache_total", "Query embedding cache lookups", "result")
	// EmbeddingCallsTotal counts embeddings requested by the service: purpose is query or document.
	EmbeddingCallsTotal = counter("embedding_calls_total", "Embedding calls by purpose", "purpose", "status")
)

// Catalog pipeline.
var (
	RecommendDuration = histogram("recommend_duration_seconds", "Recommendation latency including search and ranking", latencyBuckets, "status")
	RecommendResults  = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommend_results",
		Help:      "Products returned per recommendation",
		Buckets:   []float64{0, 1, 2, 5, 10, 15, 20},
	})
	// SearchHitsTotal splits raw hits into admitted and dropped by the result filter.
	SearchHitsTotal = counter("search_hits_total", "Raw search hits by admission outcome", "outcome")

	// CatalogWritesTotal source is ingest, backfill or generate.
	CatalogWritesTotal = counter("catalog_writes_total", "Catalog documents written", "source", "status")

	BackfillRunsTotal  = counter("backfill_runs_total", "Embedding backfill runs (ok, error, locked)", "status")
	BackfillItemsTotal = counter("backfill_items_total", "Items processed by the embedding backfill", "status")
	BackfillDuration   = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backfill_duration_seconds",
		Help:      "Duration of completed embedding backfill runs",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal, EmbeddingRequestDuration, EmbeddingTokensTotal,
			EmbeddingErrorsTotal, EmbeddingCacheTotal, EmbeddingCallsTotal,
			RecommendDuration, RecommendResults, SearchHitsTotal, CatalogWritesTotal,
			BackfillRunsTotal, BackfillItemsTotal, BackfillDuration,
			httpRequestDuration, httpRequestsTotal, httpInFlight,
		)
	})
}
