// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frightclub/gorehound/internal/catalog"
)

type fakeProvider struct {
	movies  []catalog.Movie
	reviews []Review
	ratings []Rating
	fail    error
}

func (p *fakeProvider) GetMovies(ctx context.Context) ([]catalog.Movie, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	return p.movies, nil
}

func (p *fakeProvider) GetReviews(ctx context.Context) ([]Review, error) {
	return p.reviews, nil
}

func (p *fakeProvider) GetRatings(ctx context.Context) ([]Rating, error) {
	return p.ratings, nil
}

func clubProvider() *fakeProvider {
	movies := []catalog.Movie{
		{ID: 1, Title: "The Thing", Director: "John Carpenter",
			Genres: []string{"Horror", "Science Fiction"}, Keywords: []string{"antarctica", "shapeshifter", "paranoia"},
			LetterboxdSlug: "the-thing", TrueHorror: true},
		{ID: 2, Title: "The Fly", Director: "David Cronenberg",
			Genres: []string{"Horror", "Science Fiction"}, Keywords: []string{"mutation", "scientist", "body horror"},
			LetterboxdSlug: "the-fly", TrueHorror: true},
		{ID: 3, Title: "Alien", Director: "Ridley Scott",
			Genres: []string{"Horror", "Science Fiction"}, Keywords: []string{"space", "xenomorph", "paranoia"},
			LetterboxdSlug: "alien", TrueHorror: true},
		{ID: 4, Title: "Clue", Director: "Jonathan Lynn",
			Genres: []string{"Comedy", "Mystery"}, Keywords: []string{"mansion", "board game"},
			LetterboxdSlug: "clue"},
	}
	var reviews []Review
	for i := 0; i < 6; i++ {
		u := fmt.Sprintf("member%d", i)
		reviews = append(reviews,
			Review{Username: u, MovieID: 1},
			Review{Username: u, MovieID: 3},
		)
		if i < 3 {
			reviews = append(reviews, Review{Username: u, MovieID: 2})
		}
	}
	var ratings []Rating
	for i := 0; i < 10; i++ {
		u := fmt.Sprintf("rater%d", i)
		ratings = append(ratings,
			Rating{Username: u, Slug: "the-thing", Value: 4.0 + 0.5*float64(i%3)},
			Rating{Username: u, Slug: "alien", Value: 4.0 + 0.5*float64((i+1)%3)},
			Rating{Username: u, Slug: "clue", Value: 1.0 + 0.5*float64(i%4)},
		)
	}
	return &fakeProvider{movies: movies, reviews: reviews, ratings: ratings}
}

func TestEngineLifecycle(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), clubProvider())
	require.NoError(t, err)

	// Queries before the first rebuild fail fast.
	_, err = engine.Recommend(context.Background(), 1, 5, Filters{})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.False(t, engine.Ready())

	require.NoError(t, engine.Rebuild(context.Background()))
	assert.True(t, engine.Ready())

	res, err := engine.Recommend(context.Background(), 1, 5, Filters{})
	require.NoError(t, err)
	assert.Equal(t, MethodLatentHybrid, res.Method)
	assert.NotEmpty(t, res.Items)

	st := engine.Status()
	assert.False(t, st.Running)
	assert.Empty(t, st.LastError)
	assert.Equal(t, 1, st.Version)

	stats, err := engine.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Movies)
	assert.Equal(t, 3, stats.TrueHorrorMovies)
	assert.Equal(t, 30, stats.Ratings)
	assert.Equal(t, 10, stats.Raters)
}

func TestEngineCacheServesRepeatQueries(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), clubProvider())
	require.NoError(t, err)
	require.NoError(t, engine.Rebuild(context.Background()))

	first, err := engine.Recommend(context.Background(), 1, 5, Filters{})
	require.NoError(t, err)
	second, err := engine.Recommend(context.Background(), 1, 5, Filters{})
	require.NoError(t, err)
	assert.Same(t, first, second, "identical requests hit the response cache")

	// A different filter combination is a distinct cache entry.
	third, err := engine.Recommend(context.Background(), 1, 5, Filters{TrueHorrorOnly: true})
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestEngineRebuildInvalidatesCache(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), clubProvider())
	require.NoError(t, err)
	require.NoError(t, engine.Rebuild(context.Background()))

	first, err := engine.Recommend(context.Background(), 1, 5, Filters{})
	require.NoError(t, err)

	require.NoError(t, engine.Rebuild(context.Background()))
	second, err := engine.Recommend(context.Background(), 1, 5, Filters{})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Items, second.Items, "same corpus and seed rebuild identically")
}

func TestEngineConcurrentRebuildRejected(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), clubProvider())
	require.NoError(t, err)

	engine.rebuildMu.Lock()
	err = engine.Rebuild(context.Background())
	engine.rebuildMu.Unlock()
	assert.ErrorIs(t, err, ErrRebuildInProgress)
}

func TestEngineRebuildFailureKeepsOldSnapshot(t *testing.T) {
	provider := clubProvider()
	engine, err := NewEngine(DefaultConfig(), provider)
	require.NoError(t, err)
	require.NoError(t, engine.Rebuild(context.Background()))

	provider.fail = errors.New("database offline")
	err = engine.Rebuild(context.Background())
	require.Error(t, err)

	// The previously published snapshot keeps serving.
	res, err := engine.Recommend(context.Background(), 1, 5, Filters{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Items)

	st := engine.Status()
	assert.Contains(t, st.LastError, "database offline")
}

func TestEngineRecommendByTitle(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), clubProvider())
	require.NoError(t, err)
	require.NoError(t, engine.Rebuild(context.Background()))

	res, err := engine.RecommendByTitle(context.Background(), "the thing", 5, Filters{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TargetID)

	_, err = engine.RecommendByTitle(context.Background(), "no such film", 5, Filters{})
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestEngineTopNClamping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.DefaultTopN = 2
	cfg.Limits.MaxTopN = 3
	engine, err := NewEngine(cfg, clubProvider())
	require.NoError(t, err)
	require.NoError(t, engine.Rebuild(context.Background()))

	res, err := engine.Recommend(context.Background(), 1, 0, Filters{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Items), 2)

	res, err = engine.Recommend(context.Background(), 1, 100, Filters{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Items), 3)
}

func TestEngineSearchAndMovieInfo(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), clubProvider())
	require.NoError(t, err)
	require.NoError(t, engine.Rebuild(context.Background()))

	hits, err := engine.Search("the", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)

	info, err := engine.MovieInfo(1)
	require.NoError(t, err)
	assert.Equal(t, "The Thing", info.Movie.Title)
	assert.Equal(t, 6, info.ReviewCount)
	assert.True(t, info.HasLatent)
	assert.Equal(t, 10, info.RatingCount)

	_, err = engine.MovieInfo(999)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative weight", func(c *Config) { c.CollaborativeWeight = -0.1 }},
		{"weight above one", func(c *Config) { c.CollaborativeWeight = 1.5 }},
		{"bad floor", func(c *Config) { c.MinContentSimilarity = 2 }},
		{"zero factors", func(c *Config) { c.Latent.Factors = 0 }},
		{"zero threshold", func(c *Config) { c.Latent.ConfidenceThreshold = 0 }},
		{"empty rating range", func(c *Config) { c.Latent.MinRating = 5; c.Latent.MaxRating = 5 }},
		{"default above max", func(c *Config) { c.Limits.DefaultTopN = 200 }},
		{"zero max features", func(c *Config) { c.Content.MaxFeatures = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}
