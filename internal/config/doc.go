// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package config loads and validates application configuration.
//
// Sources are layered with koanf: struct defaults, then an optional YAML file
// (CONFIG_PATH or the default search paths), then a fixed set of environment
// variables. Unknown environment variables are ignored rather than mapped by
// convention, so the supported surface is exactly the names listed in
// envTransformFunc.
package config
