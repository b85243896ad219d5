// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package metrics defines the prometheus collectors for the recommendation
// service: request and recommendation counters, rebuild and latency
// histograms, cache hit ratios, and corpus size gauges.
package metrics
