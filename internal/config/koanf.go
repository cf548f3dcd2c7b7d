// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cineniche/config.yaml",
	"/etc/cineniche/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:                   "/data/cineniche.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
			SeedMoviesCSV:          "SeedData/movies_titles.csv",
			SeedRatingsCSV:         "SeedData/movies_ratings.csv",
			CheckpointInterval:     5 * time.Minute,
		},
		Recommend: RecommendConfig{
			CollaborativePath: "SeedData/collab.csv",
			DefaultCount:      10,
			MaxCount:          100,
			DefaultTopN:       30,
			MaxTopN:           500,
			OverfetchFactor:   2,
			CacheSize:         1000,
			CacheTTL:          5 * time.Minute,
		},
		Import: ImportConfig{
			Enabled:   false,
			Reader:    "gorm",
			BatchSize: 1000,
			AutoStart: true,
		},
		API: APIConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			RequestTimeout:  10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_PORT -> server.port, DUCKDB_PATH -> database.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"idle_timeout":     "server.idle_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Database
	"duckdb_path":                     "database.path",
	"duckdb_max_memory":               "database.max_memory",
	"duckdb_threads":                  "database.threads",
	"duckdb_preserve_insertion_order": "database.preserve_insertion_order",
	"duckdb_skip_indexes":             "database.skip_indexes",
	"seed_movies_csv":                 "database.seed_movies_csv",
	"seed_ratings_csv":                "database.seed_ratings_csv",
	"duckdb_checkpoint_interval":      "database.checkpoint_interval",

	// Recommendation engine
	"collab_csv_path":            "recommend.collaborative_path",
	"recommend_default_count":    "recommend.default_count",
	"recommend_max_count":        "recommend.max_count",
	"recommend_default_top_n":    "recommend.default_top_n",
	"recommend_max_top_n":        "recommend.max_top_n",
	"recommend_overfetch_factor": "recommend.overfetch_factor",
	"recommend_cache_size":       "recommend.cache_size",
	"recommend_cache_ttl":        "recommend.cache_ttl",

	// Legacy import
	"import_enabled":            "import.enabled",
	"import_sqlite_path":        "import.sqlite_path",
	"import_reader":             "import.reader",
	"import_batch_size":         "import.batch_size",
	"import_progress_dir":       "import.progress_dir",
	"import_batches_per_second": "import.batches_per_second",
	"import_dry_run":            "import.dry_run",
	"import_auto_start":         "import.auto_start",

	// API
	"rate_limit_requests": "api.rate_limit_reqs",
	"rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":  "api.rate_limit_disabled",
	"request_timeout":     "api.request_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - COLLAB_CSV_PATH -> recommend.collaborative_path
//   - LOG_LEVEL -> logging.level
//
// Unmapped keys return "" so unrelated environment variables are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
