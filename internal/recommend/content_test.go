// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frightclub/gorehound/internal/catalog"
)

func TestContentModelSimilarityRange(t *testing.T) {
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "Halloween", Director: "John Carpenter",
			Genres: []string{"Horror", "Thriller"}, Keywords: []string{"slasher", "babysitter", "masked killer"}},
		catalog.Movie{ID: 2, Title: "Halloween II", Director: "Rick Rosenthal",
			Genres: []string{"Horror", "Thriller"}, Keywords: []string{"slasher", "hospital", "masked killer"}},
		catalog.Movie{ID: 3, Title: "Paddington", Director: "Paul King",
			Genres: []string{"Family", "Comedy"}, Keywords: []string{"talking bear", "london"}},
	)
	cm := BuildContentModel(DefaultConfig().Content, uni, zerolog.Nop())

	simSequel := cm.Similarity(1, 2)
	simUnrelated := cm.Similarity(1, 3)
	assert.Greater(t, simSequel, simUnrelated,
		"a sequel sharing genre and keywords must outscore an unrelated film")
	assert.GreaterOrEqual(t, simSequel, 0.0)
	assert.LessOrEqual(t, simSequel, 1.0)
	assert.GreaterOrEqual(t, simUnrelated, 0.0)

	// Symmetric.
	assert.InDelta(t, simSequel, cm.Similarity(2, 1), 1e-12)

	// Self-similarity of a vectorized movie is 1.
	assert.InDelta(t, 1.0, cm.Similarity(1, 1), 1e-9)
}

func TestContentModelMissingFeatures(t *testing.T) {
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "Featureless"},
		catalog.Movie{ID: 2, Title: "Rich", Director: "Dario Argento",
			Genres: []string{"Horror"}, Keywords: []string{"giallo"}},
	)
	cm := BuildContentModel(DefaultConfig().Content, uni, zerolog.Nop())

	assert.False(t, cm.Has(1))
	assert.True(t, cm.Has(2))
	assert.Zero(t, cm.Similarity(1, 2))
	assert.Zero(t, cm.Similarity(2, 1))
}

func TestContentModelGenreUpweighting(t *testing.T) {
	// Movie 2 shares only genres with the target; movie 3 shares only a
	// keyword. With genres repeated, the genre match must dominate.
	uni := testUniverse(t,
		catalog.Movie{ID: 1, Title: "Target", Genres: []string{"Horror", "Mystery"}, Keywords: []string{"cursed videotape"}},
		catalog.Movie{ID: 2, Title: "Genre Twin", Genres: []string{"Horror", "Mystery"}, Keywords: []string{"ghost ship"}},
		catalog.Movie{ID: 3, Title: "Keyword Twin", Genres: []string{"Western"}, Keywords: []string{"cursed videotape"}},
	)
	cm := BuildContentModel(DefaultConfig().Content, uni, zerolog.Nop())

	assert.Greater(t, cm.Similarity(1, 2), cm.Similarity(1, 3))
}

func TestContentModelVocabularyCap(t *testing.T) {
	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Horror"}, Keywords: []string{"alpha", "beta", "gamma", "delta"}},
		{ID: 2, Title: "B", Genres: []string{"Horror"}, Keywords: []string{"alpha", "epsilon", "zeta"}},
	}
	uni := testUniverse(t, movies...)

	cfg := DefaultConfig().Content
	cfg.MaxFeatures = 3
	cm := BuildContentModel(cfg, uni, zerolog.Nop())
	require.LessOrEqual(t, len(cm.Vocab), 3)

	// Shared genre survives the cap, so similarity stays positive.
	assert.Greater(t, cm.Similarity(1, 2), 0.0)
}

func TestContentModelDeterministicVocabulary(t *testing.T) {
	movies := []catalog.Movie{
		{ID: 1, Title: "A", Genres: []string{"Horror"}, Keywords: []string{"occult", "seance", "possession"}},
		{ID: 2, Title: "B", Genres: []string{"Horror"}, Keywords: []string{"seance", "haunting"}},
		{ID: 3, Title: "C", Genres: []string{"Thriller"}, Keywords: []string{"possession", "haunting"}},
	}
	uni := testUniverse(t, movies...)

	a := BuildContentModel(DefaultConfig().Content, uni, zerolog.Nop())
	b := BuildContentModel(DefaultConfig().Content, uni, zerolog.Nop())
	assert.Equal(t, a.Vocab, b.Vocab)
	assert.Equal(t, a.VectorsByID, b.VectorsByID)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"John Carpenter", []string{"john", "carpenter"}},
		{"The Texas Chain Saw Massacre", []string{"texas", "chain", "saw", "massacre"}},
		{"sci-fi", []string{"sci", "fi"}},
		{"a an of", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := tokenize(tt.in)
		if len(tt.want) == 0 {
			assert.Empty(t, got, tt.in)
			continue
		}
		assert.Equal(t, tt.want, got, tt.in)
	}
}
