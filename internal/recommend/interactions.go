// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/catalog"
)

// InteractionIndex is the deduplicated bipartite user/movie graph built from
// the review corpus. A user reviewing the same movie twice counts once;
// co-occurrence overlap is set-based, so duplicates would otherwise inflate
// scores.
type InteractionIndex struct {
	userMovies map[string]map[int]struct{}
	movieUsers map[int]map[string]struct{}
	pairs      int
}

// BuildInteractionIndex indexes reviews against the catalog. Reviews naming
// movie IDs outside the catalog are skipped with a warning count; ingestion
// is best-effort.
func BuildInteractionIndex(reviews []Review, universe *catalog.Index, logger zerolog.Logger) *InteractionIndex {
	idx := &InteractionIndex{
		userMovies: make(map[string]map[int]struct{}),
		movieUsers: make(map[int]map[string]struct{}),
	}

	skippedUnknown := 0
	skippedEmpty := 0
	for _, r := range reviews {
		if r.Username == "" {
			skippedEmpty++
			continue
		}
		if !universe.Has(r.MovieID) {
			skippedUnknown++
			continue
		}
		movies, ok := idx.userMovies[r.Username]
		if !ok {
			movies = make(map[int]struct{})
			idx.userMovies[r.Username] = movies
		}
		if _, seen := movies[r.MovieID]; seen {
			continue
		}
		movies[r.MovieID] = struct{}{}

		users, ok := idx.movieUsers[r.MovieID]
		if !ok {
			users = make(map[string]struct{})
			idx.movieUsers[r.MovieID] = users
		}
		users[r.Username] = struct{}{}
		idx.pairs++
	}

	if skippedUnknown > 0 || skippedEmpty > 0 {
		logger.Warn().
			Int("unknown_movie", skippedUnknown).
			Int("missing_username", skippedEmpty).
			Msg("Skipped malformed review records")
	}
	logger.Debug().
		Int("users", len(idx.userMovies)).
		Int("movies", len(idx.movieUsers)).
		Int("pairs", idx.pairs).
		Msg("Interaction index built")
	return idx
}

// UsersOf returns the set of users who reviewed the movie. The returned map
// is owned by the index and must not be mutated.
func (ix *InteractionIndex) UsersOf(movieID int) map[string]struct{} {
	return ix.movieUsers[movieID]
}

// MoviesOf returns the set of movies the user reviewed. The returned map is
// owned by the index and must not be mutated.
func (ix *InteractionIndex) MoviesOf(username string) map[int]struct{} {
	return ix.userMovies[username]
}

// ReviewCount returns the number of distinct users who reviewed the movie.
func (ix *InteractionIndex) ReviewCount(movieID int) int {
	return len(ix.movieUsers[movieID])
}

// Users returns the number of distinct reviewers.
func (ix *InteractionIndex) Users() int {
	return len(ix.userMovies)
}

// MoviesWithReviews returns the number of movies with at least one review.
func (ix *InteractionIndex) MoviesWithReviews() int {
	return len(ix.movieUsers)
}

// Pairs returns the number of deduplicated (user, movie) pairs.
func (ix *InteractionIndex) Pairs() int {
	return ix.pairs
}
