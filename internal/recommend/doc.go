// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package recommend implements the hybrid recommendation engine.
//
// The engine blends two statistically different signals into one ranking:
//
//   - Collaborative: either co-review overlap from the horror-club review
//     corpus, or latent-factor similarity from a truncated SVD over the
//     explicit ratings corpus when that corpus is available.
//   - Content: TF-IDF cosine similarity over genre, director, and keyword
//     metadata.
//
// Per query the engine selects one of three terminal modes depending on the
// signal available for the target movie: latent hybrid, co-occurrence hybrid,
// or content-only. In latent mode the collaborative weight is scaled by a
// confidence ramp so that thin rating evidence shifts the blend toward
// content similarity instead of trusting noisy factors.
//
// # Concurrency
//
// All indices are built once into an immutable Snapshot and published through
// an atomic pointer. Queries never lock; rebuilds construct a complete new
// snapshot out-of-band and swap it in atomically.
package recommend
