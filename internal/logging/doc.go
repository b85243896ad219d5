// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package logging provides zerolog-based structured logging for Gorehound.
//
// A single global logger is configured at startup via Init; packages derive
// component loggers from it with With().Str("component", ...) so every line
// carries its origin. JSON output is the default, console output is available
// for development.
package logging
