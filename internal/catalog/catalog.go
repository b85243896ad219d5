// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates a lookup by ID or title matched no movie.
var ErrNotFound = errors.New("movie not found")

// Movie is the full metadata record for one catalog entry.
//
// ID is the stable external catalog identifier (TMDB ID) and is unique across
// the universe. Optional fields supplied by the metadata store may be empty;
// absence is not an error.
type Movie struct {
	// ID is the stable external catalog ID (TMDB ID).
	ID int `json:"id"`

	// Title is the display title. Not unique; remakes collide.
	Title string `json:"title"`

	// Year is the release year, 0 when unknown.
	Year int `json:"year,omitempty"`

	// Director is the primary director, possibly empty.
	Director string `json:"director,omitempty"`

	// Genres is the list of genre names.
	Genres []string `json:"genres,omitempty"`

	// Keywords is the list of free-form keyword tags.
	Keywords []string `json:"keywords,omitempty"`

	// Cast is the list of top-billed cast members.
	Cast []string `json:"cast,omitempty"`

	// LetterboxdSlug identifies the underlying rated work in the ratings
	// corpus. Multiple catalog rows (duplicates) can share one slug.
	LetterboxdSlug string `json:"letterboxd_slug,omitempty"`

	// TrueHorror marks membership in the curated "true horror" subset.
	TrueHorror bool `json:"true_horror"`

	// PosterPath is the poster image path from the metadata provider.
	PosterPath string `json:"poster_path,omitempty"`

	// VoteAverage is the catalog-wide average vote (0-10), 0 when unknown.
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// HasContentFeatures reports whether the movie carries any text metadata
// usable for content similarity.
func (m *Movie) HasContentFeatures() bool {
	return len(m.Genres) > 0 || m.Director != "" || len(m.Keywords) > 0
}

// Index is the immutable in-memory movie universe.
type Index struct {
	byID    map[int]Movie
	byTitle map[string]int
	order   []int
}

// Load builds an index from metadata records. Records with a non-positive ID
// are skipped. When two records share an ID the first one wins and the
// duplicate is dropped; duplicate IDs indicate a corrupt export and are
// counted in the returned skip total.
//
// Title lookup is ambiguous by construction: when two movies share a
// lowercased title (remakes), the first-loaded movie claims the title.
// Callers that need an exact movie must resolve by ID.
func Load(movies []Movie) (*Index, int) {
	idx := &Index{
		byID:    make(map[int]Movie, len(movies)),
		byTitle: make(map[string]int, len(movies)),
		order:   make([]int, 0, len(movies)),
	}

	skipped := 0
	for i := range movies {
		m := movies[i]
		if m.ID <= 0 {
			skipped++
			continue
		}
		if _, dup := idx.byID[m.ID]; dup {
			skipped++
			continue
		}

		idx.byID[m.ID] = m
		idx.order = append(idx.order, m.ID)

		key := strings.ToLower(m.Title)
		if key != "" {
			if _, taken := idx.byTitle[key]; !taken {
				idx.byTitle[key] = m.ID
			}
		}
	}

	return idx, skipped
}

// Get returns the movie with the given ID.
func (idx *Index) Get(id int) (Movie, error) {
	m, ok := idx.byID[id]
	if !ok {
		return Movie{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return m, nil
}

// Has reports whether the ID exists in the universe.
func (idx *Index) Has(id int) bool {
	_, ok := idx.byID[id]
	return ok
}

// ResolveTitle returns the ID claimed by the lowercased exact title.
func (idx *Index) ResolveTitle(title string) (int, error) {
	id, ok := idx.byTitle[strings.ToLower(strings.TrimSpace(title))]
	if !ok {
		return 0, fmt.Errorf("title %q: %w", title, ErrNotFound)
	}
	return id, nil
}

// Search performs a case-insensitive substring match over titles. Results are
// returned in universe insertion order; no relevance ranking is applied.
func (idx *Index) Search(query string, limit int) []Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var matches []Movie
	for _, id := range idx.order {
		m := idx.byID[id]
		if strings.Contains(strings.ToLower(m.Title), query) {
			matches = append(matches, m)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

// IDs returns all movie IDs in insertion order. The returned slice is shared
// and must not be mutated.
func (idx *Index) IDs() []int {
	return idx.order
}

// Len returns the number of movies in the universe.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// SlugIndex maps each letterboxd slug to the IDs of the catalog rows that
// share it, in insertion order. Duplicate catalog rows for the same work
// share a slug; remakes do not.
func (idx *Index) SlugIndex() map[string][]int {
	out := make(map[string][]int)
	for _, id := range idx.order {
		slug := idx.byID[id].LetterboxdSlug
		if slug == "" {
			continue
		}
		out[slug] = append(out[slug], id)
	}
	return out
}

// TrueHorrorCount returns the number of movies in the curated horror subset.
func (idx *Index) TrueHorrorCount() int {
	n := 0
	for _, id := range idx.order {
		if idx.byID[id].TrueHorror {
			n++
		}
	}
	return n
}
