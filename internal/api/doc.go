// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package api exposes the recommendation engine over HTTP.
//
// # Overview
//
// The router is chi-based with per-group rate limits, CORS, request IDs, and
// prometheus instrumentation keyed by route pattern. All responses share one
// envelope (APIResponse) carrying the request ID and handler duration.
//
// Endpoints under /api/v1:
//   - GET /movies/{movieID}/recommendations: ranked recommendations by ID
//   - GET /recommend?title=...: recommendations by (ambiguous) title
//   - GET /movies/{movieID}: catalog and signal summary for one movie
//   - GET /search, /popular, /stats: catalog browsing
//   - POST /rebuild, GET /rebuild: trigger and observe model rebuilds
//   - GET /health/live, /health/ready: liveness and readiness
//
// Engine errors map to stable HTTP codes: unknown movie 404, no review or
// rating signal 422, engine not yet built 503, rebuild already running 409.
// An empty recommendation list is a successful 200, not an error.
package api
