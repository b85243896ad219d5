// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/catalog"
)

// Snapshot is one immutable, fully-built generation of the engine: catalog,
// interaction index, content model, and (optionally) latent model. All query
// methods are read-only and safe for unlimited concurrent use.
type Snapshot struct {
	cfg          *Config
	logger       zerolog.Logger
	universe     *catalog.Index
	interactions *InteractionIndex
	content      *ContentModel
	latent       *LatentModel // nil when the ratings corpus was empty
	ratings      int
	raters       int
	builtAt      time.Time
	version      int
}

type scoredCandidate struct {
	id      int
	hybrid  float64
	collab  float64
	content float64
}

// Recommend ranks candidates for the target movie. topN must already be
// clamped by the caller. The scoring mode is picked per target:
//
//	latent embedding present  -> latent hybrid
//	any co-reviewers present  -> co-occurrence hybrid
//	otherwise                 -> content-only fallback
func (s *Snapshot) Recommend(ctx context.Context, movieID, topN int, filters Filters) (*Result, error) {
	target, err := s.universe.Get(movieID)
	if err != nil {
		return nil, err
	}

	minSim := s.cfg.MinContentSimilarity
	if filters.MinContentSimilarity != nil {
		minSim = *filters.MinContentSimilarity
	}

	hasLatent := s.latent.Has(movieID)
	hasReviews := s.interactions.ReviewCount(movieID) > 0
	hasContent := s.content.Has(movieID)
	if !hasLatent && !hasReviews && !hasContent {
		return nil, fmt.Errorf("movie %d (%s): %w", movieID, target.Title, ErrNoSignal)
	}

	var (
		method     Method
		candidates []scoredCandidate
	)
	switch {
	case hasLatent:
		method = MethodLatentHybrid
		candidates, err = s.scoreLatent(ctx, movieID, minSim, filters)
	case hasReviews:
		method = MethodCoOccurrenceHybrid
		candidates, err = s.scoreCoOccurrence(ctx, movieID, minSim, filters)
	default:
		method = MethodContentOnly
		candidates, err = s.scoreContentOnly(ctx, movieID, minSim, filters)
	}
	if err != nil {
		return nil, err
	}

	// Deterministic total order: score descending, ID ascending on ties.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].hybrid != candidates[j].hybrid {
			return candidates[i].hybrid > candidates[j].hybrid
		}
		return candidates[i].id < candidates[j].id
	})

	total := len(candidates)
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	items := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		m, err := s.universe.Get(c.id)
		if err != nil {
			continue
		}
		items = append(items, Recommendation{
			MovieID:            c.id,
			Title:              m.Title,
			HybridScore:        c.hybrid,
			CollaborativeScore: c.collab,
			ContentScore:       c.content,
			ReviewCount:        s.interactions.ReviewCount(c.id),
			Movie:              m,
		})
	}

	s.logger.Debug().
		Int("movie_id", movieID).
		Str("method", method.String()).
		Int("candidates", total).
		Msg("Recommendation scored")

	return &Result{
		TargetID:        movieID,
		TargetTitle:     target.Title,
		Method:          method,
		MethodName:      method.String(),
		Fallback:        method == MethodContentOnly,
		TotalCandidates: total,
		Items:           items,
	}, nil
}

// scoreLatent blends latent cosine similarity with content similarity.
// The collaborative weight for each pair is scaled by the confidence ramp of
// the less-rated side; candidates without an embedding fall back to their
// content score alone.
func (s *Snapshot) scoreLatent(ctx context.Context, targetID int, minSim float64, filters Filters) ([]scoredCandidate, error) {
	targetRatings := s.latent.RatingCount(targetID)
	out := make([]scoredCandidate, 0, 256)
	for i, id := range s.universe.IDs() {
		if i%2048 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if id == targetID {
			continue
		}
		if !s.passesFilters(id, filters) {
			continue
		}
		contentSim := s.content.Similarity(targetID, id)
		if contentSim < minSim {
			continue
		}

		collabSim, ok := s.latent.Similarity(targetID, id)
		var hybrid, collab float64
		if ok {
			minRatings := targetRatings
			if c := s.latent.RatingCount(id); c < minRatings {
				minRatings = c
			}
			confidence := float64(minRatings) / float64(s.cfg.Latent.ConfidenceThreshold)
			if confidence > 1 {
				confidence = 1
			}
			w := s.cfg.CollaborativeWeight * confidence
			hybrid = w*collabSim + (1-w)*contentSim
			collab = collabSim
		} else {
			hybrid = contentSim
		}
		out = append(out, scoredCandidate{id: id, hybrid: hybrid, collab: collab, content: contentSim})
	}
	return out, nil
}

// scoreCoOccurrence blends normalized co-reviewer overlap with content
// similarity under the fixed configured weights. Only movies sharing at
// least one reviewer with the target are collaborative candidates; the rest
// of the catalog is unreachable in this mode by construction, matching the
// club's "people who reviewed X also reviewed Y" semantics.
func (s *Snapshot) scoreCoOccurrence(ctx context.Context, targetID int, minSim float64, filters Filters) ([]scoredCandidate, error) {
	targetUsers := s.interactions.UsersOf(targetID)
	overlap := make(map[int]int)
	for user := range targetUsers {
		for id := range s.interactions.MoviesOf(user) {
			if id != targetID {
				overlap[id]++
			}
		}
	}

	wCollab := s.cfg.CollaborativeWeight
	wContent := 1 - wCollab
	denom := float64(len(targetUsers))
	out := make([]scoredCandidate, 0, len(overlap))
	n := 0
	for id, count := range overlap {
		n++
		if n%2048 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !s.passesFilters(id, filters) {
			continue
		}
		contentSim := s.content.Similarity(targetID, id)
		if contentSim < minSim {
			continue
		}
		collab := float64(count) / denom
		out = append(out, scoredCandidate{
			id:      id,
			hybrid:  wCollab*collab + wContent*contentSim,
			collab:  collab,
			content: contentSim,
		})
	}
	return out, nil
}

// scoreContentOnly ranks the whole catalog by content similarity alone.
func (s *Snapshot) scoreContentOnly(ctx context.Context, targetID int, minSim float64, filters Filters) ([]scoredCandidate, error) {
	out := make([]scoredCandidate, 0, 256)
	for i, id := range s.universe.IDs() {
		if i%2048 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if id == targetID {
			continue
		}
		if !s.passesFilters(id, filters) {
			continue
		}
		contentSim := s.content.Similarity(targetID, id)
		if contentSim < minSim || contentSim == 0 {
			continue
		}
		out = append(out, scoredCandidate{id: id, hybrid: contentSim, content: contentSim})
	}
	return out, nil
}

func (s *Snapshot) passesFilters(id int, filters Filters) bool {
	if !filters.TrueHorrorOnly {
		return true
	}
	m, err := s.universe.Get(id)
	if err != nil {
		return false
	}
	return m.TrueHorror
}

// Summary returns the enriched catalog view of one movie.
func (s *Snapshot) Summary(movieID int) (Summary, error) {
	m, err := s.universe.Get(movieID)
	if err != nil {
		return Summary{}, err
	}
	return s.summaryOf(m), nil
}

func (s *Snapshot) summaryOf(m catalog.Movie) Summary {
	return Summary{
		Movie:       m,
		ReviewCount: s.interactions.ReviewCount(m.ID),
		RatingCount: s.latent.RatingCount(m.ID),
		HasLatent:   s.latent.Has(m.ID),
	}
}

// Search matches titles by case-insensitive substring.
func (s *Snapshot) Search(query string, limit int) []Summary {
	matches := s.universe.Search(query, limit)
	out := make([]Summary, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.summaryOf(m))
	}
	return out
}

// Popular returns the most-reviewed movies, review count descending with ID
// ascending on ties.
func (s *Snapshot) Popular(limit int) []Summary {
	if limit <= 0 {
		return nil
	}
	ids := s.universe.IDs()
	ranked := make([]int, 0, len(ids))
	for _, id := range ids {
		if s.interactions.ReviewCount(id) > 0 {
			ranked = append(ranked, id)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		ci, cj := s.interactions.ReviewCount(ranked[i]), s.interactions.ReviewCount(ranked[j])
		if ci != cj {
			return ci > cj
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Summary, 0, len(ranked))
	for _, id := range ranked {
		m, err := s.universe.Get(id)
		if err != nil {
			continue
		}
		out = append(out, s.summaryOf(m))
	}
	return out
}

// Stats reports the snapshot's corpus shape.
func (s *Snapshot) Stats() Stats {
	st := Stats{
		Movies:            s.universe.Len(),
		TrueHorrorMovies:  s.universe.TrueHorrorCount(),
		Reviews:           s.interactions.Pairs(),
		Reviewers:         s.interactions.Users(),
		MoviesWithReviews: s.interactions.MoviesWithReviews(),
		Ratings:           s.ratings,
		Raters:            s.raters,
		LatentCoverage:    s.latent.Coverage(),
		BuiltAt:           s.builtAt,
		Version:           s.version,
	}
	if s.latent != nil {
		st.LatentFactors = s.latent.Rank
	}
	return st
}

// Universe exposes the snapshot's catalog index.
func (s *Snapshot) Universe() *catalog.Index {
	return s.universe
}
