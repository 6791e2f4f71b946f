// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package metrics provides Prometheus instrumentation for:
//   - API endpoint latency and throughput
//   - Recommendation scoring runs and memoization efficiency
//   - Narrative tier selection and generative client health
//   - Catalog store access
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Scoring Metrics
	ScoringRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoring_runs_total",
			Help: "Total number of full scoring runs (cache misses)",
		},
	)

	ScoringCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoring_candidates_per_run",
			Help:    "Number of candidates ranked per scoring run",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoring_duration_seconds",
			Help:    "Duration of scoring runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ScoreCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_cache_hits_total",
			Help: "Total number of memoized scoring result hits",
		},
	)

	ScoreCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_cache_misses_total",
			Help: "Total number of memoized scoring result misses",
		},
	)

	// Narrative Metrics
	NarrativeServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narrative_served_total",
			Help: "Total narratives served, labeled by source tier",
		},
		[]string{"tier"}, // "cache", "ai", "template"
	)

	NarrativeGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "narrative_generation_duration_seconds",
			Help:    "Duration of generative narrative calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
		},
	)

	NarrativeGenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narrative_generation_errors_total",
			Help: "Total generative narrative failures",
		},
		[]string{"reason"}, // "timeout", "breaker_open", "rate_limited", "upstream"
	)

	// CircuitBreakerState reports the generative client breaker state
	// (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "narrative_circuit_breaker_state",
			Help: "Generative client circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	ProfileCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_cache_hits_total",
			Help: "Total profile narrative cache hits",
		},
	)

	ProfileCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_cache_misses_total",
			Help: "Total profile narrative cache misses",
		},
	)

	// Catalog Metrics
	CatalogLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_lookups_total",
			Help: "Total catalog candidate lookups",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordScoringRun records one full (non-memoized) scoring run.
func RecordScoringRun(candidates int, duration time.Duration) {
	ScoringRuns.Inc()
	ScoringCandidates.Observe(float64(candidates))
	ScoringDuration.Observe(duration.Seconds())
}

// RecordNarrativeServed records a narrative response by source tier.
func RecordNarrativeServed(tier string) {
	NarrativeServed.WithLabelValues(tier).Inc()
}

// RecordCircuitBreakerState updates the breaker state gauge.
func RecordCircuitBreakerState(state float64) {
	CircuitBreakerState.Set(state)
}
