// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package api

import (
	"net/http"
	"strconv"
)

// RecommendationsRequest holds validated query parameters for
// recommendation endpoints.
type RecommendationsRequest struct {
	TopN                 int      `validate:"min=0,max=100"`
	TrueHorrorOnly       bool
	MinContentSimilarity *float64 `validate:"omitempty"`
}

// SearchRequest holds validated query parameters for /search.
type SearchRequest struct {
	Query string `validate:"required,min=1,max=200"`
	Limit int    `validate:"min=0,max=100"`
}

// PopularRequest holds validated query parameters for /popular.
type PopularRequest struct {
	Limit int `validate:"min=0,max=100"`
}

func parseIntParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseBoolParam(r *http.Request, name string) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func parseFloatParam(r *http.Request, name string) (*float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return nil, false
	}
	return &v, true
}
