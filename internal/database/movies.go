// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package database

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/frightclub/gorehound/internal/catalog"
)

// GetMovies returns the full metadata corpus in ID order.
func (db *DB) GetMovies(ctx context.Context) ([]catalog.Movie, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, year, director, genres, keywords, cast_members,
		        letterboxd_slug, true_horror, poster_path, vote_average
		 FROM movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []catalog.Movie
	skipped := 0
	for rows.Next() {
		var (
			m        catalog.Movie
			year     sql.NullInt32
			director sql.NullString
			genres   sql.NullString
			keywords sql.NullString
			cast     sql.NullString
			slug     sql.NullString
			poster   sql.NullString
			vote     sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.Title, &year, &director, &genres, &keywords,
			&cast, &slug, &m.TrueHorror, &poster, &vote); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		m.Year = int(year.Int32)
		m.Director = director.String
		m.LetterboxdSlug = slug.String
		m.PosterPath = poster.String
		m.VoteAverage = vote.Float64
		var bad bool
		m.Genres, bad = decodeStringList(genres.String)
		if bad {
			skipped++
			continue
		}
		m.Keywords, bad = decodeStringList(keywords.String)
		if bad {
			skipped++
			continue
		}
		m.Cast, bad = decodeStringList(cast.String)
		if bad {
			skipped++
			continue
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	if skipped > 0 {
		db.logger.Warn().Int("skipped", skipped).Msg("Dropped movies with corrupt list columns")
	}
	return movies, nil
}

// ReplaceMovies swaps the metadata corpus in one transaction.
func (db *DB) ReplaceMovies(ctx context.Context, movies []catalog.Movie) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin movies tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
		return fmt.Errorf("clear movies: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (id, title, year, director, genres, keywords, cast_members,
		                     letterboxd_slug, true_horror, poster_path, vote_average)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare movie insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		genres, err := encodeStringList(m.Genres)
		if err != nil {
			return fmt.Errorf("encode genres for %d: %w", m.ID, err)
		}
		keywords, err := encodeStringList(m.Keywords)
		if err != nil {
			return fmt.Errorf("encode keywords for %d: %w", m.ID, err)
		}
		cast, err := encodeStringList(m.Cast)
		if err != nil {
			return fmt.Errorf("encode cast for %d: %w", m.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, m.ID, m.Title, m.Year, m.Director,
			genres, keywords, cast, m.LetterboxdSlug, m.TrueHorror,
			m.PosterPath, m.VoteAverage); err != nil {
			return fmt.Errorf("insert movie %d: %w", m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit movies: %w", err)
	}

	db.logger.Info().Int("count", len(movies)).Msg("Movie corpus replaced")
	return nil
}

// List columns are stored as JSON text. DuckDB native lists would work too,
// but JSON keeps scanning portable across driver versions.
func encodeStringList(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeStringList(raw string) (items []string, bad bool) {
	if raw == "" || raw == "[]" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, true
	}
	return items, false
}
