// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package database persists the three corpora (movie metadata, club
// reviews, external ratings) in DuckDB and exposes them to the
// recommendation engine.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/logging"
)

// Config controls the DuckDB connection. An empty Path opens an in-memory
// database, used by tests.
type Config struct {
	Path      string `koanf:"path" json:"path"`
	MaxMemory string `koanf:"max_memory" json:"max_memory"`
	Threads   int    `koanf:"threads" json:"threads"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Path:      "data/gorehound.db",
		MaxMemory: "512MB",
		Threads:   2,
	}
}

// DB wraps the DuckDB connection pool.
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// New opens the database and creates the schema if missing.
func New(ctx context.Context, cfg Config) (*DB, error) {
	logger := logging.With().Str("component", "database").Logger()

	connStr := cfg.Path
	var params []string
	if cfg.MaxMemory != "" {
		params = append(params, "max_memory="+cfg.MaxMemory)
	}
	if cfg.Threads > 0 {
		params = append(params, fmt.Sprintf("threads=%d", cfg.Threads))
	}
	if len(params) > 0 {
		connStr += "?" + strings.Join(params, "&")
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	db := &DB{conn: conn, logger: logger}
	if err := db.initSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info().Str("path", cfg.Path).Msg("Database opened")
	return db, nil
}

func (db *DB) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT PRIMARY KEY,
			title VARCHAR NOT NULL,
			year INTEGER,
			director VARCHAR,
			genres VARCHAR,
			keywords VARCHAR,
			cast_members VARCHAR,
			letterboxd_slug VARCHAR,
			true_horror BOOLEAN DEFAULT FALSE,
			poster_path VARCHAR,
			vote_average DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			username VARCHAR NOT NULL,
			movie_id BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			username VARCHAR NOT NULL,
			slug VARCHAR NOT NULL,
			rating DOUBLE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_movie ON reviews (movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_slug ON ratings (slug)`,
	}
	for _, stmt := range stmts {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies connectivity, used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Counts returns row counts for all three corpora.
func (db *DB) Counts(ctx context.Context) (movies, reviews, ratings int, err error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM movies),
		        (SELECT COUNT(*) FROM reviews),
		        (SELECT COUNT(*) FROM ratings)`)
	if err := row.Scan(&movies, &reviews, &ratings); err != nil {
		return 0, 0, 0, fmt.Errorf("count corpora: %w", err)
	}
	return movies, reviews, ratings, nil
}
