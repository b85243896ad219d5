// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/gorehound/config.yaml",
	"/etc/gorehound/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// processSliceFields converts comma-separated env/file strings into slices
// for known slice-typed keys.
func processSliceFields(k *koanf.Koanf) error {
	slicePaths := []string{"security.cors_origins"}
	for _, path := range slicePaths {
		if !k.Exists(path) {
			continue
		}
		if raw, ok := k.Get(path).(string); ok {
			parts := strings.Split(raw, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					out = append(out, trimmed)
				}
			}
			if err := k.Set(path, out); err != nil {
				return fmt.Errorf("normalize %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config paths. Only
// explicitly mapped variables are honored so unrelated host environment
// never leaks into the config tree.
func envTransformFunc(key string) string {
	mappings := map[string]string{
		"HTTP_HOST":             "server.host",
		"HTTP_PORT":             "server.port",
		"HTTP_READ_TIMEOUT":     "server.read_timeout",
		"HTTP_WRITE_TIMEOUT":    "server.write_timeout",
		"HTTP_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",

		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
		"LOG_CALLER": "logging.caller",

		"DUCKDB_PATH":       "database.path",
		"DUCKDB_MAX_MEMORY": "database.max_memory",
		"DUCKDB_THREADS":    "database.threads",

		"IMPORT_MOVIES_PATH":  "import.movies_path",
		"IMPORT_REVIEWS_PATH": "import.reviews_path",
		"IMPORT_RATINGS_PATH": "import.ratings_path",

		"MODEL_STORE_ENABLED": "model_store.enabled",
		"MODEL_STORE_PATH":    "model_store.path",

		"RATE_LIMIT_REQUESTS": "security.rate_limit_requests",
		"RATE_LIMIT_WINDOW":   "security.rate_limit_window",
		"CORS_ORIGINS":        "security.cors_origins",

		"RECOMMEND_COLLABORATIVE_WEIGHT":    "recommend.collaborative_weight",
		"RECOMMEND_MIN_CONTENT_SIMILARITY":  "recommend.min_content_similarity",
		"RECOMMEND_MAX_FEATURES":            "recommend.content.max_features",
		"RECOMMEND_SVD_FACTORS":             "recommend.latent.factors",
		"RECOMMEND_SVD_ITERATIONS":          "recommend.latent.iterations",
		"RECOMMEND_CONFIDENCE_THRESHOLD":    "recommend.latent.confidence_threshold",
		"RECOMMEND_SVD_SEED":                "recommend.latent.seed",
		"RECOMMEND_DEFAULT_TOP_N":           "recommend.limits.default_top_n",
		"RECOMMEND_MAX_TOP_N":               "recommend.limits.max_top_n",
		"RECOMMEND_CACHE_ENABLED":           "recommend.cache.enabled",
		"RECOMMEND_CACHE_TTL":               "recommend.cache.ttl",
		"RECOMMEND_REBUILD_INTERVAL":        "recommend.rebuild_interval",
	}
	if path, ok := mappings[strings.ToUpper(key)]; ok {
		return path
	}
	// Unknown variables are dropped.
	return ""
}
