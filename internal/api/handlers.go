// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/catalog"
	"github.com/frightclub/gorehound/internal/logging"
	"github.com/frightclub/gorehound/internal/recommend"
	"github.com/frightclub/gorehound/internal/validation"
)

// Pinger is the data store health check used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the API endpoints.
type Handlers struct {
	engine *recommend.Engine
	pinger Pinger
	logger zerolog.Logger
}

// NewHandlers wires the engine and data store into the API surface. pinger
// may be nil when no database backs the service (tests).
func NewHandlers(engine *recommend.Engine, pinger Pinger) *Handlers {
	return &Handlers{
		engine: engine,
		pinger: pinger,
		logger: logging.With().Str("component", "api").Logger(),
	}
}

// recommendationItem is one ranked result with its display tier.
type recommendationItem struct {
	recommend.Recommendation
	Tier string `json:"tier"`
}

type recommendationPayload struct {
	TargetID        int                  `json:"target_id"`
	TargetTitle     string               `json:"target_title"`
	Method          string               `json:"method"`
	Fallback        bool                 `json:"fallback"`
	TotalCandidates int                  `json:"total_candidates"`
	Items           []recommendationItem `json:"items"`
}

func buildPayload(res *recommend.Result) recommendationPayload {
	items := make([]recommendationItem, 0, len(res.Items))
	for _, rec := range res.Items {
		items = append(items, recommendationItem{
			Recommendation: rec,
			Tier:           tierFor(res.Method, rec.HybridScore),
		})
	}
	return recommendationPayload{
		TargetID:        res.TargetID,
		TargetTitle:     res.TargetTitle,
		Method:          res.MethodName,
		Fallback:        res.Fallback,
		TotalCandidates: res.TotalCandidates,
		Items:           items,
	}
}

// respondEngineError maps engine errors onto the API error taxonomy.
func respondEngineError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound("movie not found")
	case errors.Is(err, recommend.ErrNoSignal):
		rw.UnprocessableEntity(ErrCodeNoSignal, "movie has no usable collaborative or content signal")
	case errors.Is(err, recommend.ErrNotReady):
		rw.ServiceUnavailable("recommendation engine is still training")
	case errors.Is(err, recommend.ErrRebuildInProgress):
		rw.Conflict("a rebuild is already in progress")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusRequestTimeout, ErrCodeBadRequest, "request cancelled")
	default:
		rw.InternalError(err)
	}
}

func parseRecommendationsRequest(rw *ResponseWriter, r *http.Request) (RecommendationsRequest, bool) {
	var req RecommendationsRequest
	var ok bool
	if req.TopN, ok = parseIntParam(r, "top_n", 0); !ok {
		rw.BadRequest("top_n must be an integer")
		return req, false
	}
	if req.TrueHorrorOnly, ok = parseBoolParam(r, "true_horror"); !ok {
		rw.BadRequest("true_horror must be a boolean")
		return req, false
	}
	if req.MinContentSimilarity, ok = parseFloatParam(r, "min_content_similarity"); !ok {
		rw.BadRequest("min_content_similarity must be a number in [0, 1]")
		return req, false
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields)
		return req, false
	}
	return req, true
}

// Recommendations serves GET /movies/{movieID}/recommendations.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		rw.BadRequest("movieID must be a positive integer")
		return
	}
	req, ok := parseRecommendationsRequest(rw, r)
	if !ok {
		return
	}

	res, err := h.engine.Recommend(r.Context(), movieID, req.TopN, recommend.Filters{
		TrueHorrorOnly:       req.TrueHorrorOnly,
		MinContentSimilarity: req.MinContentSimilarity,
	})
	if err != nil {
		respondEngineError(rw, err)
		return
	}
	rw.Success(buildPayload(res))
}

// RecommendByTitle serves GET /recommend?title=. Kept for club members used
// to the title-based flow; remakes resolve to whichever movie loaded first,
// so ID-based requests are the precise path.
func (h *Handlers) RecommendByTitle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	title := r.URL.Query().Get("title")
	if title == "" {
		rw.BadRequest("title is required")
		return
	}
	req, ok := parseRecommendationsRequest(rw, r)
	if !ok {
		return
	}

	res, err := h.engine.RecommendByTitle(r.Context(), title, req.TopN, recommend.Filters{
		TrueHorrorOnly:       req.TrueHorrorOnly,
		MinContentSimilarity: req.MinContentSimilarity,
	})
	if err != nil {
		respondEngineError(rw, err)
		return
	}
	rw.Success(buildPayload(res))
}

// Search serves GET /search.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := SearchRequest{Query: r.URL.Query().Get("q")}
	var ok bool
	if req.Limit, ok = parseIntParam(r, "limit", 0); !ok {
		rw.BadRequest("limit must be an integer")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields)
		return
	}

	results, err := h.engine.Search(req.Query, req.Limit)
	if err != nil {
		respondEngineError(rw, err)
		return
	}
	rw.Success(map[string]any{
		"query":   req.Query,
		"count":   len(results),
		"results": results,
	})
}

// MovieInfo serves GET /movies/{movieID}.
func (h *Handlers) MovieInfo(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		rw.BadRequest("movieID must be a positive integer")
		return
	}

	info, err := h.engine.MovieInfo(movieID)
	if err != nil {
		respondEngineError(rw, err)
		return
	}
	rw.Success(info)
}

// Popular serves GET /popular.
func (h *Handlers) Popular(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := PopularRequest{}
	var ok bool
	if req.Limit, ok = parseIntParam(r, "limit", 0); !ok {
		rw.BadRequest("limit must be an integer")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields)
		return
	}

	results, err := h.engine.Popular(req.Limit)
	if err != nil {
		respondEngineError(rw, err)
		return
	}
	rw.Success(map[string]any{
		"count":   len(results),
		"results": results,
	})
}

// Stats serves GET /stats.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.engine.Stats()
	if err != nil {
		respondEngineError(rw, err)
		return
	}
	rw.Success(stats)
}

// TriggerRebuild serves POST /rebuild. The rebuild runs in the background;
// clients poll GET /rebuild for completion. A second trigger while one is
// running returns 409.
func (h *Handlers) TriggerRebuild(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.engine.Status().Running {
		rw.Conflict("a rebuild is already in progress")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := h.engine.Rebuild(ctx); err != nil && !errors.Is(err, recommend.ErrRebuildInProgress) {
			h.logger.Error().Err(err).Msg("Background rebuild failed")
		}
	}()

	rw.Accepted(map[string]string{"status": "rebuild started"})
}

// RebuildStatus serves GET /rebuild.
func (h *Handlers) RebuildStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(h.engine.Status())
}

// HealthLive serves GET /health/live.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]string{"status": "alive"})
}

// HealthReady serves GET /health/ready: the engine must have a published
// snapshot and the database must answer a ping.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.engine.Ready() {
		rw.ServiceUnavailable("no recommendation snapshot published yet")
		return
	}
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			rw.ServiceUnavailable("database unreachable")
			return
		}
	}
	rw.Success(map[string]string{"status": "ready"})
}
