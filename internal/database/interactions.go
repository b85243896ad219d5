// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package database

import (
	"context"
	"fmt"

	"github.com/frightclub/gorehound/internal/recommend"
)

// GetReviews returns the club review corpus.
func (db *DB) GetReviews(ctx context.Context) ([]recommend.Review, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT username, movie_id FROM reviews ORDER BY username, movie_id`)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []recommend.Review
	for rows.Next() {
		var r recommend.Review
		if err := rows.Scan(&r.Username, &r.MovieID); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// ReplaceReviews swaps the review corpus in one transaction.
func (db *DB) ReplaceReviews(ctx context.Context, reviews []recommend.Review) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reviews tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews`); err != nil {
		return fmt.Errorf("clear reviews: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO reviews (username, movie_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare review insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reviews {
		if _, err := stmt.ExecContext(ctx, r.Username, r.MovieID); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reviews: %w", err)
	}

	db.logger.Info().Int("count", len(reviews)).Msg("Review corpus replaced")
	return nil
}

// GetRatings returns the external ratings corpus.
func (db *DB) GetRatings(ctx context.Context) ([]recommend.Rating, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT username, slug, rating FROM ratings ORDER BY username, slug`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []recommend.Rating
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.Username, &r.Slug, &r.Value); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

// ReplaceRatings swaps the ratings corpus in one transaction.
func (db *DB) ReplaceRatings(ctx context.Context, ratings []recommend.Rating) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ratings tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ratings`); err != nil {
		return fmt.Errorf("clear ratings: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ratings (username, slug, rating) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare rating insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range ratings {
		if _, err := stmt.ExecContext(ctx, r.Username, r.Slug, r.Value); err != nil {
			return fmt.Errorf("insert rating: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ratings: %w", err)
	}

	db.logger.Info().Int("count", len(ratings)).Msg("Rating corpus replaced")
	return nil
}
