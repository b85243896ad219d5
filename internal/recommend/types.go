// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/frightclub/gorehound/internal/catalog"
)

// Sentinel errors for recommendation requests. Handlers map these to HTTP
// status codes; callers should test with errors.Is.
var (
	// ErrNoSignal indicates the target movie exists but carries neither
	// collaborative interactions nor content features, so no scoring mode
	// can produce a ranking.
	ErrNoSignal = errors.New("movie has no collaborative or content signal")

	// ErrNotReady indicates no snapshot has been built yet.
	ErrNotReady = errors.New("recommendation engine not ready")

	// ErrRebuildInProgress indicates a rebuild was requested while another
	// rebuild holds the training lock.
	ErrRebuildInProgress = errors.New("rebuild already in progress")

	// ErrInvalidConfig indicates the engine configuration failed validation.
	ErrInvalidConfig = errors.New("invalid recommendation config")
)

// Method identifies the scoring mode a recommendation result was produced
// under. The mode is selected per target movie, not globally.
type Method int

const (
	// MethodLatentHybrid blends SVD latent-factor similarity with content
	// similarity under the confidence ramp.
	MethodLatentHybrid Method = iota
	// MethodCoOccurrenceHybrid blends normalized co-review overlap with
	// content similarity under fixed weights.
	MethodCoOccurrenceHybrid
	// MethodContentOnly ranks by content similarity alone. This is the
	// cold-start fallback for movies with no collaborative data.
	MethodContentOnly
)

// String returns the wire name of the method.
func (m Method) String() string {
	switch m {
	case MethodLatentHybrid:
		return "latent_hybrid"
	case MethodCoOccurrenceHybrid:
		return "cooccurrence_hybrid"
	case MethodContentOnly:
		return "content_only"
	default:
		return "unknown"
	}
}

// Review is a single observed (user, movie) interaction from the club's
// review corpus. Reviews carry no rating value; presence is the signal.
type Review struct {
	Username string
	MovieID  int
}

// Rating is an explicit star rating from the external ratings corpus. The
// rated work is keyed by letterboxd slug, not movie ID; the catalog maps
// slugs back onto club movies during latent training.
type Rating struct {
	Username string
	Slug     string
	Value    float64
}

// Filters narrows the candidate set of a recommendation request.
type Filters struct {
	// TrueHorrorOnly drops candidates not curated as genuine horror.
	TrueHorrorOnly bool

	// MinContentSimilarity overrides the configured content floor when
	// non-nil. Zero disables the floor entirely.
	MinContentSimilarity *float64
}

// Recommendation is one ranked candidate in a result.
type Recommendation struct {
	MovieID            int           `json:"movie_id"`
	Title              string        `json:"title"`
	HybridScore        float64       `json:"hybrid_score"`
	CollaborativeScore float64       `json:"collaborative_score"`
	ContentScore       float64       `json:"content_score"`
	ReviewCount        int           `json:"review_count"`
	Movie              catalog.Movie `json:"movie"`
}

// Result is the full outcome of a recommendation request.
type Result struct {
	TargetID        int              `json:"target_id"`
	TargetTitle     string           `json:"target_title"`
	Method          Method           `json:"-"`
	MethodName      string           `json:"method"`
	Fallback        bool             `json:"fallback"`
	TotalCandidates int              `json:"total_candidates"`
	Items           []Recommendation `json:"items"`
}

// Summary is the catalog view of one movie enriched with interaction counts.
type Summary struct {
	Movie       catalog.Movie `json:"movie"`
	ReviewCount int           `json:"review_count"`
	RatingCount int           `json:"rating_count"`
	HasLatent   bool          `json:"has_latent"`
}

// Stats reports the shape of the currently published snapshot.
type Stats struct {
	Movies            int       `json:"movies"`
	TrueHorrorMovies  int       `json:"true_horror_movies"`
	Reviews           int       `json:"reviews"`
	Reviewers         int       `json:"reviewers"`
	MoviesWithReviews int       `json:"movies_with_reviews"`
	Ratings           int       `json:"ratings"`
	Raters            int       `json:"raters"`
	LatentCoverage    int       `json:"latent_coverage"`
	LatentFactors     int       `json:"latent_factors"`
	BuiltAt           time.Time `json:"built_at"`
	Version           int       `json:"version"`
}

// RebuildStatus reports the state of the most recent rebuild.
type RebuildStatus struct {
	Running    bool          `json:"running"`
	LastStart  time.Time     `json:"last_start,omitempty"`
	LastFinish time.Time     `json:"last_finish,omitempty"`
	LastError  string        `json:"last_error,omitempty"`
	Duration   time.Duration `json:"duration_ns,omitempty"`
	Version    int           `json:"version"`
}

// DataProvider supplies the three corpora the engine trains on. The
// database package provides the production implementation; tests provide
// in-memory ones.
type DataProvider interface {
	GetMovies(ctx context.Context) ([]catalog.Movie, error)
	GetReviews(ctx context.Context) ([]Review, error)
	GetRatings(ctx context.Context) ([]Rating, error)
}
