// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package validation wraps go-playground/validator with a shared, concurrency
// safe validator instance and translates tag failures into stable, client
// facing messages.
package validation
