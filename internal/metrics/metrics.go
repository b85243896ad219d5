// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package metrics defines the Prometheus collectors exported at /metrics.
// Collectors register on the default registry via promauto at package init.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsServed counts served recommendation results by
	// scoring mode.
	RecommendationsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gorehound_recommendations_served_total",
		Help: "Recommendation results served, by scoring method.",
	}, []string{"method"})

	// RecommendationLatency observes scoring latency by mode, cache
	// misses only.
	RecommendationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gorehound_recommendation_duration_seconds",
		Help:    "Recommendation scoring latency by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// CacheHits and CacheMisses track the response cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gorehound_response_cache_hits_total",
		Help: "Recommendation response cache hits.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gorehound_response_cache_misses_total",
		Help: "Recommendation response cache misses.",
	})

	// ModelStoreHits counts rebuilds satisfied from the persistent model
	// store instead of retraining.
	ModelStoreHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gorehound_model_store_hits_total",
		Help: "Rebuilds that reused persisted trained models.",
	})

	// RebuildsTotal counts snapshot rebuilds by outcome.
	RebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gorehound_rebuilds_total",
		Help: "Snapshot rebuilds, by outcome.",
	}, []string{"status"})

	// RebuildDuration observes successful rebuild wall time.
	RebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gorehound_rebuild_duration_seconds",
		Help:    "Successful snapshot rebuild duration.",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	})

	// HTTPRequestsTotal counts API requests by route, method, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gorehound_http_requests_total",
		Help: "HTTP requests, by route pattern, method, and status.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration observes API request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gorehound_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	corpusMovies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gorehound_corpus_movies",
		Help: "Movies in the published snapshot.",
	})
	corpusReviewPairs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gorehound_corpus_review_pairs",
		Help: "Deduplicated (user, movie) review pairs in the published snapshot.",
	})
	corpusReviewers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gorehound_corpus_reviewers",
		Help: "Distinct reviewers in the published snapshot.",
	})
	latentCoverage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gorehound_latent_coverage",
		Help: "Movies with a latent embedding in the published snapshot.",
	})
)

// SetCorpusGauges publishes snapshot shape after a successful rebuild.
func SetCorpusGauges(movies, reviewPairs, reviewers, withLatent int) {
	corpusMovies.Set(float64(movies))
	corpusReviewPairs.Set(float64(reviewPairs))
	corpusReviewers.Set(float64(reviewers))
	latentCoverage.Set(float64(withLatent))
}

// ObserveHTTPRequest records one completed API request.
func ObserveHTTPRequest(route, method string, status int, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
}
