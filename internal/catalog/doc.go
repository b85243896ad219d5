// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package catalog holds the in-memory movie universe index.
//
// The index maps the stable external catalog ID (TMDB ID) to the full
// metadata record and provides a user-facing title search. Internally every
// join between datasets is keyed by ID; titles are never used as join keys
// because remakes collide on title (a 1984 original and a 2010 remake can
// share an identical title string).
//
// The index is built once from the metadata store and treated as immutable;
// rebuilds produce a new index that replaces the old one atomically at the
// engine level.
package catalog
