// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package storage persists trained model artifacts in Badger so the engine
// can skip retraining on restart when the corpus fingerprint is unchanged.
//
// Artifacts are gob-encoded, gzip-compressed, and checksummed with sha256.
// A missing or fingerprint-stale artifact is a cache miss; a checksum
// mismatch is an error, which callers treat as a signal to retrain.
package storage
