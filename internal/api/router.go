// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions tunes middleware applied to the API routes.
type RouterOptions struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSOrigins       []string
}

// DefaultRouterOptions returns permissive defaults, used by tests.
func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		CORSOrigins:       []string{"*"},
	}
}

// NewRouter builds the full HTTP handler: API routes plus /metrics.
func NewRouter(handlers *Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		MaxAge:         300,
	}))

	// Health endpoints get a generous limit so probes never trip it.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/live", handlers.HealthLive)
		r.Get("/ready", handlers.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(opts.RateLimitRequests, opts.RateLimitWindow))
		r.Use(Observability)

		r.Get("/search", handlers.Search)
		r.Get("/popular", handlers.Popular)
		r.Get("/stats", handlers.Stats)
		r.Get("/recommend", handlers.RecommendByTitle)
		r.Get("/movies/{movieID}", handlers.MovieInfo)
		r.Get("/movies/{movieID}/recommendations", handlers.Recommendations)
		r.Post("/rebuild", handlers.TriggerRebuild)
		r.Get("/rebuild", handlers.RebuildStatus)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
