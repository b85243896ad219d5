// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMovies() []Movie {
	return []Movie{
		{ID: 948, Title: "Halloween", Year: 1978, Director: "John Carpenter", Genres: []string{"Horror", "Thriller"}, TrueHorror: true},
		{ID: 11281, Title: "A Nightmare on Elm Street", Year: 1984, Director: "Wes Craven", Genres: []string{"Horror"}, TrueHorror: true},
		{ID: 23437, Title: "A Nightmare on Elm Street", Year: 2010, Director: "Samuel Bayer", Genres: []string{"Horror"}, TrueHorror: true},
		{ID: 1091, Title: "The Thing", Year: 1982, Director: "John Carpenter", Genres: []string{"Horror", "Science Fiction"}, TrueHorror: true},
		{ID: 500, Title: "Reservoir Dogs", Year: 1992, Director: "Quentin Tarantino", Genres: []string{"Crime"}},
	}
}

func TestLoadAndGet(t *testing.T) {
	idx, skipped := Load(testMovies())
	assert.Zero(t, skipped)
	assert.Equal(t, 5, idx.Len())

	m, err := idx.Get(1091)
	require.NoError(t, err)
	assert.Equal(t, "The Thing", m.Title)
	assert.Equal(t, 1982, m.Year)
}

func TestGetNotFound(t *testing.T) {
	idx, _ := Load(testMovies())

	_, err := idx.Get(999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadSkipsInvalidAndDuplicateIDs(t *testing.T) {
	movies := []Movie{
		{ID: 1, Title: "First"},
		{ID: 0, Title: "No ID"},
		{ID: 1, Title: "Duplicate ID"},
		{ID: 2, Title: "Second"},
	}

	idx, skipped := Load(movies)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 2, idx.Len())

	m, err := idx.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "First", m.Title, "first record wins on duplicate ID")
}

func TestResolveTitleFirstWinsOnRemakes(t *testing.T) {
	idx, _ := Load(testMovies())

	// Both the 1984 original and the 2010 remake share the title; the
	// first-loaded entry claims the lookup.
	id, err := idx.ResolveTitle("a nightmare on elm street")
	require.NoError(t, err)
	assert.Equal(t, 11281, id)

	_, err = idx.ResolveTitle("The Wicker Man")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSearchSubstringInsertionOrder(t *testing.T) {
	idx, _ := Load(testMovies())

	results := idx.Search("nightmare", 10)
	require.Len(t, results, 2)
	assert.Equal(t, 11281, results[0].ID)
	assert.Equal(t, 23437, results[1].ID)

	results = idx.Search("THE", 1)
	require.Len(t, results, 1)

	assert.Empty(t, idx.Search("", 10))
	assert.Empty(t, idx.Search("halloween", 0))
	assert.Empty(t, idx.Search("zzz-no-match", 10))
}

func TestTrueHorrorCount(t *testing.T) {
	idx, _ := Load(testMovies())
	assert.Equal(t, 4, idx.TrueHorrorCount())
}

func TestHasContentFeatures(t *testing.T) {
	withGenres := Movie{Genres: []string{"Horror"}}
	assert.True(t, withGenres.HasContentFeatures())

	directorOnly := Movie{Director: "Dario Argento"}
	assert.True(t, directorOnly.HasContentFeatures())

	bare := Movie{ID: 1, Title: "Metadata-free"}
	assert.False(t, bare.HasContentFeatures())
}
