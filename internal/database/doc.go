// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package database provides DuckDB-backed persistence for the three corpora
// the recommender trains on: the movie catalog, club reviews, and Letterboxd
// ratings.
//
// # Overview
//
// DB wraps a database/sql connection to DuckDB and satisfies
// recommend.DataProvider, so the engine reads corpora straight from storage
// without an adapter layer. An empty path opens an in-memory database, which
// the tests rely on.
//
// The package is organized by corpus:
//   - database.go: connection lifecycle, schema init, corpus counts
//   - movies.go: catalog reads and transactional bulk replacement
//   - interactions.go: review and rating reads and replacement
//   - importer.go: best-effort JSON file ingestion
//
// # Data conventions
//
// List-valued movie columns (genres, themes, cast) are stored as JSON text
// rather than DuckDB native lists so scanning stays portable across driver
// versions. Bulk loads replace a corpus wholesale inside one transaction;
// readers never observe a half-imported corpus. Malformed import records are
// skipped and counted, an unreadable file is an error.
package database
