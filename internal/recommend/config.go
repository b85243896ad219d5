// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"fmt"
	"time"
)

// Config controls scoring, training, and caching behaviour of the engine.
type Config struct {
	// CollaborativeWeight is the collaborative share of the hybrid blend.
	// In co-occurrence mode it is applied as-is; in latent mode it is the
	// ceiling of the confidence ramp.
	CollaborativeWeight float64 `koanf:"collaborative_weight" json:"collaborative_weight"`

	// MinContentSimilarity is the default content floor. Candidates whose
	// content similarity to the target falls below it are discarded in
	// every mode.
	MinContentSimilarity float64 `koanf:"min_content_similarity" json:"min_content_similarity"`

	Content ContentConfig `koanf:"content" json:"content"`
	Latent  LatentConfig  `koanf:"latent" json:"latent"`
	Limits  LimitsConfig  `koanf:"limits" json:"limits"`
	Cache   CacheConfig   `koanf:"cache" json:"cache"`

	// RebuildInterval triggers periodic background rebuilds when positive.
	RebuildInterval time.Duration `koanf:"rebuild_interval" json:"rebuild_interval"`
}

// ContentConfig controls the TF-IDF content vectorizer.
type ContentConfig struct {
	// MaxFeatures caps the vocabulary size. Terms are kept by corpus
	// frequency, ties broken lexicographically for determinism.
	MaxFeatures int `koanf:"max_features" json:"max_features"`

	// GenreRepeat repeats genre tokens to up-weight them relative to
	// keywords in the TF-IDF vector.
	GenreRepeat int `koanf:"genre_repeat" json:"genre_repeat"`

	// DirectorRepeat repeats director tokens.
	DirectorRepeat int `koanf:"director_repeat" json:"director_repeat"`
}

// LatentConfig controls the truncated SVD over the ratings corpus.
type LatentConfig struct {
	// Factors is the rank of the decomposition.
	Factors int `koanf:"factors" json:"factors"`

	// Iterations bounds the block power iteration.
	Iterations int `koanf:"iterations" json:"iterations"`

	// ConfidenceThreshold is the rating count at which the confidence ramp
	// saturates and the full collaborative weight applies.
	ConfidenceThreshold int `koanf:"confidence_threshold" json:"confidence_threshold"`

	// MinRating and MaxRating bound acceptable rating values; rows outside
	// the range are skipped during training.
	MinRating float64 `koanf:"min_rating" json:"min_rating"`
	MaxRating float64 `koanf:"max_rating" json:"max_rating"`

	// Seed makes factor initialization reproducible.
	Seed int64 `koanf:"seed" json:"seed"`
}

// LimitsConfig bounds request parameters.
type LimitsConfig struct {
	DefaultTopN int `koanf:"default_top_n" json:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n" json:"max_top_n"`
}

// CacheConfig controls the per-request response cache.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled" json:"enabled"`
	TTL        time.Duration `koanf:"ttl" json:"ttl"`
	MaxEntries int           `koanf:"max_entries" json:"max_entries"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		CollaborativeWeight:  0.7,
		MinContentSimilarity: 0.05,
		Content: ContentConfig{
			MaxFeatures:    1000,
			GenreRepeat:    3,
			DirectorRepeat: 2,
		},
		Latent: LatentConfig{
			Factors:             50,
			Iterations:          30,
			ConfidenceThreshold: 200,
			MinRating:           0.5,
			MaxRating:           5.0,
			Seed:                42,
		},
		Limits: LimitsConfig{
			DefaultTopN: 20,
			MaxTopN:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
		RebuildInterval: 24 * time.Hour,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.CollaborativeWeight < 0 || c.CollaborativeWeight > 1 {
		return fmt.Errorf("%w: collaborative_weight %.3f outside [0,1]", ErrInvalidConfig, c.CollaborativeWeight)
	}
	if c.MinContentSimilarity < 0 || c.MinContentSimilarity > 1 {
		return fmt.Errorf("%w: min_content_similarity %.3f outside [0,1]", ErrInvalidConfig, c.MinContentSimilarity)
	}
	if c.Content.MaxFeatures <= 0 {
		return fmt.Errorf("%w: content.max_features must be positive", ErrInvalidConfig)
	}
	if c.Content.GenreRepeat < 1 || c.Content.DirectorRepeat < 1 {
		return fmt.Errorf("%w: content token repeats must be >= 1", ErrInvalidConfig)
	}
	if c.Latent.Factors <= 0 {
		return fmt.Errorf("%w: latent.factors must be positive", ErrInvalidConfig)
	}
	if c.Latent.Iterations <= 0 {
		return fmt.Errorf("%w: latent.iterations must be positive", ErrInvalidConfig)
	}
	if c.Latent.ConfidenceThreshold <= 0 {
		return fmt.Errorf("%w: latent.confidence_threshold must be positive", ErrInvalidConfig)
	}
	if c.Latent.MinRating >= c.Latent.MaxRating {
		return fmt.Errorf("%w: latent rating range [%.1f, %.1f] is empty", ErrInvalidConfig, c.Latent.MinRating, c.Latent.MaxRating)
	}
	if c.Limits.DefaultTopN <= 0 || c.Limits.MaxTopN <= 0 {
		return fmt.Errorf("%w: limits must be positive", ErrInvalidConfig)
	}
	if c.Limits.DefaultTopN > c.Limits.MaxTopN {
		return fmt.Errorf("%w: default_top_n %d exceeds max_top_n %d", ErrInvalidConfig, c.Limits.DefaultTopN, c.Limits.MaxTopN)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("%w: cache.ttl must be positive when cache is enabled", ErrInvalidConfig)
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("%w: cache.max_entries must be positive when cache is enabled", ErrInvalidConfig)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
