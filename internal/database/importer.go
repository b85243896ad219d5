// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package database

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/frightclub/gorehound/internal/catalog"
	"github.com/frightclub/gorehound/internal/recommend"
)

// ImportConfig names the JSON export files to load at startup. Empty paths
// are skipped.
type ImportConfig struct {
	MoviesPath  string `koanf:"movies_path" json:"movies_path"`
	ReviewsPath string `koanf:"reviews_path" json:"reviews_path"`
	RatingsPath string `koanf:"ratings_path" json:"ratings_path"`
}

// movieRecord is the movie export row. tmdb_id is the canonical key; id is
// accepted as a fallback for older exports.
type movieRecord struct {
	TMDBID         int      `json:"tmdb_id"`
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Year           int      `json:"year"`
	Director       string   `json:"director"`
	Genres         []string `json:"genres"`
	Keywords       []string `json:"keywords"`
	Cast           []string `json:"cast"`
	LetterboxdSlug string   `json:"letterboxd_slug"`
	TrueHorror     bool     `json:"true_horror"`
	PosterPath     string   `json:"poster_path"`
	VoteAverage    float64  `json:"vote_average"`
}

type reviewRecord struct {
	Username string `json:"username"`
	MovieID  int    `json:"movie_id"`
}

type ratingRecord struct {
	Username string  `json:"username"`
	Slug     string  `json:"slug"`
	Rating   float64 `json:"rating"`
}

// Import loads the configured JSON exports into the database, replacing
// whatever is there. Individual malformed records are skipped with a
// warning; an unreadable or unparsable file is an error.
func (db *DB) Import(ctx context.Context, cfg ImportConfig) error {
	if cfg.MoviesPath != "" {
		if err := db.importMovies(ctx, cfg.MoviesPath); err != nil {
			return err
		}
	}
	if cfg.ReviewsPath != "" {
		if err := db.importReviews(ctx, cfg.ReviewsPath); err != nil {
			return err
		}
	}
	if cfg.RatingsPath != "" {
		if err := db.importRatings(ctx, cfg.RatingsPath); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) importMovies(ctx context.Context, path string) error {
	var records []movieRecord
	if err := readJSONFile(path, &records); err != nil {
		return fmt.Errorf("import movies: %w", err)
	}

	movies := make([]catalog.Movie, 0, len(records))
	skipped := 0
	for _, rec := range records {
		id := rec.TMDBID
		if id == 0 {
			id = rec.ID
		}
		if id <= 0 || rec.Title == "" {
			skipped++
			continue
		}
		movies = append(movies, catalog.Movie{
			ID:             id,
			Title:          rec.Title,
			Year:           rec.Year,
			Director:       rec.Director,
			Genres:         rec.Genres,
			Keywords:       rec.Keywords,
			Cast:           rec.Cast,
			LetterboxdSlug: rec.LetterboxdSlug,
			TrueHorror:     rec.TrueHorror,
			PosterPath:     rec.PosterPath,
			VoteAverage:    rec.VoteAverage,
		})
	}
	if skipped > 0 {
		db.logger.Warn().Int("skipped", skipped).Str("path", path).Msg("Skipped malformed movie records")
	}
	return db.ReplaceMovies(ctx, movies)
}

func (db *DB) importReviews(ctx context.Context, path string) error {
	var records []reviewRecord
	if err := readJSONFile(path, &records); err != nil {
		return fmt.Errorf("import reviews: %w", err)
	}

	reviews := make([]recommend.Review, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if rec.Username == "" || rec.MovieID <= 0 {
			skipped++
			continue
		}
		reviews = append(reviews, recommend.Review{Username: rec.Username, MovieID: rec.MovieID})
	}
	if skipped > 0 {
		db.logger.Warn().Int("skipped", skipped).Str("path", path).Msg("Skipped malformed review records")
	}
	return db.ReplaceReviews(ctx, reviews)
}

func (db *DB) importRatings(ctx context.Context, path string) error {
	var records []ratingRecord
	if err := readJSONFile(path, &records); err != nil {
		return fmt.Errorf("import ratings: %w", err)
	}

	ratings := make([]recommend.Rating, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if rec.Username == "" || rec.Slug == "" {
			skipped++
			continue
		}
		ratings = append(ratings, recommend.Rating{Username: rec.Username, Slug: rec.Slug, Value: rec.Rating})
	}
	if skipped > 0 {
		db.logger.Warn().Int("skipped", skipped).Str("path", path).Msg("Skipped malformed rating records")
	}
	return db.ReplaceRatings(ctx, ratings)
}

func readJSONFile(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
