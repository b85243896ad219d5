// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frightclub/gorehound/internal/catalog"
)

func latentTestConfig() LatentConfig {
	cfg := DefaultConfig().Latent
	cfg.Factors = 4
	cfg.Iterations = 50
	return cfg
}

// ratingsFixture builds a corpus where slugs "a" and "b" are rated
// identically by every user and slug "c" inversely, so a and b end up with
// near-parallel embeddings.
func ratingsFixture() []Rating {
	var ratings []Rating
	for i := 0; i < 8; i++ {
		user := fmt.Sprintf("user%d", i)
		high := 4.0 + 0.5*float64(i%3)
		low := 1.0 + 0.5*float64(i%2)
		if i%2 == 0 {
			high, low = low, high
		}
		ratings = append(ratings,
			Rating{Username: user, Slug: "a", Value: high},
			Rating{Username: user, Slug: "b", Value: high},
			Rating{Username: user, Slug: "c", Value: low},
		)
	}
	return ratings
}

func TestLatentModelParallelTastes(t *testing.T) {
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "A", LetterboxdSlug: "a"},
		catalog.Movie{ID: 2, Title: "B", LetterboxdSlug: "b"},
		catalog.Movie{ID: 3, Title: "C", LetterboxdSlug: "c"},
	)
	lm, err := BuildLatentModel(context.Background(), latentTestConfig(), ratingsFixture(), uni, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, lm)

	simAB, ok := lm.Similarity(1, 2)
	require.True(t, ok)
	simAC, ok := lm.Similarity(1, 3)
	require.True(t, ok)

	// Slugs rated in lockstep must be far more similar than slugs rated
	// inversely (whose raw cosine is negative and clamps to 0).
	assert.InDelta(t, 1.0, simAB, 0.05)
	assert.Less(t, simAC, simAB)
	assert.GreaterOrEqual(t, simAC, 0.0)
	assert.LessOrEqual(t, simAB, 1.0)
}

func TestLatentModelDeterministic(t *testing.T) {
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "A", LetterboxdSlug: "a"},
		catalog.Movie{ID: 2, Title: "B", LetterboxdSlug: "b"},
		catalog.Movie{ID: 3, Title: "C", LetterboxdSlug: "c"},
	)
	first, err := BuildLatentModel(context.Background(), latentTestConfig(), ratingsFixture(), uni, zerolog.Nop())
	require.NoError(t, err)
	second, err := BuildLatentModel(context.Background(), latentTestConfig(), ratingsFixture(), uni, zerolog.Nop())
	require.NoError(t, err)

	s1, _ := first.Similarity(1, 2)
	s2, _ := second.Similarity(1, 2)
	assert.Equal(t, s1, s2, "fixed seed must reproduce identical similarities")
}

func TestLatentModelSharedSlugRows(t *testing.T) {
	// Two catalog rows for the same underlying work share one slug; both
	// must map onto the same embedding and rating count.
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "Suspiria", LetterboxdSlug: "suspiria"},
		catalog.Movie{ID: 9, Title: "Suspiria (4K Restoration)", LetterboxdSlug: "suspiria"},
		catalog.Movie{ID: 2, Title: "B", LetterboxdSlug: "b"},
	)
	var ratings []Rating
	for i := 0; i < 5; i++ {
		user := fmt.Sprintf("user%d", i)
		ratings = append(ratings,
			Rating{Username: user, Slug: "suspiria", Value: 4.5},
			Rating{Username: user, Slug: "b", Value: 2.0 + float64(i)*0.5},
		)
	}
	lm, err := BuildLatentModel(context.Background(), latentTestConfig(), ratings, uni, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, lm)

	assert.Equal(t, 5, lm.RatingCount(1))
	assert.Equal(t, 5, lm.RatingCount(9))
	assert.Equal(t, lm.IDToRow[1], lm.IDToRow[9])

	sim, ok := lm.Similarity(1, 9)
	require.True(t, ok)
	assert.InDelta(t, 1.0, sim, 1e-9, "rows sharing a slug are identical")
}

func TestLatentModelSkipsMalformedRatings(t *testing.T) {
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "A", LetterboxdSlug: "a"},
		catalog.Movie{ID: 2, Title: "B", LetterboxdSlug: "b"},
	)
	ratings := []Rating{
		{Username: "u1", Slug: "a", Value: 3.5},
		{Username: "u1", Slug: "b", Value: 2.0},
		{Username: "u2", Slug: "a", Value: 4.0},
		{Username: "u2", Slug: "b", Value: 4.5},
		// Malformed rows: out of range, unknown slug, missing user.
		{Username: "u3", Slug: "a", Value: 11.0},
		{Username: "u3", Slug: "not-in-catalog", Value: 3.0},
		{Username: "", Slug: "a", Value: 3.0},
	}
	lm, err := BuildLatentModel(context.Background(), latentTestConfig(), ratings, uni, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, lm)

	assert.Equal(t, 4, lm.RatingsUsed)
	assert.Equal(t, 2, lm.RatingCount(1))
	assert.Equal(t, 2, lm.Users)
}

func TestLatentModelDuplicateRatingLastWins(t *testing.T) {
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "A", LetterboxdSlug: "a"},
		catalog.Movie{ID: 2, Title: "B", LetterboxdSlug: "b"},
	)
	ratings := []Rating{
		{Username: "u1", Slug: "a", Value: 1.0},
		{Username: "u1", Slug: "a", Value: 5.0},
		{Username: "u1", Slug: "b", Value: 3.0},
		{Username: "u2", Slug: "a", Value: 4.0},
		{Username: "u2", Slug: "b", Value: 2.0},
	}
	lm, err := BuildLatentModel(context.Background(), latentTestConfig(), ratings, uni, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, lm)

	// Re-rating the same slug replaces the old value instead of adding a
	// second observation.
	assert.Equal(t, 4, lm.RatingsUsed)
	assert.Equal(t, 2, lm.RatingCount(1))
}

func TestLatentModelEmptyCorpus(t *testing.T) {
	uni := testUniverse(t, catalog.Movie{ID: 1, Title: "A", LetterboxdSlug: "a"})

	lm, err := BuildLatentModel(context.Background(), latentTestConfig(), nil, uni, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, lm)

	// A nil model answers queries as "unavailable", not as zero signal.
	_, ok := lm.Similarity(1, 1)
	assert.False(t, ok)
	assert.False(t, lm.Has(1))
	assert.Zero(t, lm.RatingCount(1))
	assert.Zero(t, lm.Coverage())
}

func TestLatentModelUnavailableForUnratedMovie(t *testing.T) {
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "A", LetterboxdSlug: "a"},
		catalog.Movie{ID: 2, Title: "B", LetterboxdSlug: "b"},
		catalog.Movie{ID: 3, Title: "Unrated", LetterboxdSlug: "unrated"},
	)
	ratings := []Rating{
		{Username: "u1", Slug: "a", Value: 3.0},
		{Username: "u1", Slug: "b", Value: 4.0},
		{Username: "u2", Slug: "a", Value: 2.5},
		{Username: "u2", Slug: "b", Value: 4.5},
	}
	lm, err := BuildLatentModel(context.Background(), latentTestConfig(), ratings, uni, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, lm)

	_, ok := lm.Similarity(1, 3)
	assert.False(t, ok, "movies outside the ratings corpus have no embedding")
	assert.True(t, lm.Has(1))
	assert.False(t, lm.Has(3))
}
