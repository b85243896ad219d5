// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package api

import "github.com/frightclub/gorehound/internal/recommend"

// Tier labels shown in the club UI.
const (
	TierExcellent = "Excellent Match"
	TierStrong    = "Strong Match"
	TierGood      = "Good Match"
	TierExploring = "Worth Exploring"
)

// tierFor maps a hybrid score to a display tier. Content-only scores use
// higher cutoffs: raw cosine similarity runs hotter than the blended score,
// so the same number means less.
func tierFor(method recommend.Method, score float64) string {
	if method == recommend.MethodContentOnly {
		switch {
		case score > 0.3:
			return TierExcellent
		case score > 0.2:
			return TierStrong
		case score > 0.15:
			return TierGood
		default:
			return TierExploring
		}
	}
	switch {
	case score > 0.2:
		return TierExcellent
	case score > 0.15:
		return TierStrong
	case score > 0.1:
		return TierGood
	default:
		return TierExploring
	}
}
