// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Sections:
//   - Server: HTTP listener and timeouts
//   - Database: DuckDB catalog store and seed CSV files
//   - Recommend: collaborative table location and result limits
//   - Import: one-shot import of the legacy SQLite database
//   - API: rate limiting and per-request timeout
//   - Logging: zerolog level and output format
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Import    ImportConfig    `koanf:"import"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // 0 = use NumCPU
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // DuckDB default is true
	SkipIndexes            bool   `koanf:"skip_indexes"`             // for fast test setup

	// SeedMoviesCSV and SeedRatingsCSV are loaded into empty tables at
	// startup. Empty disables seeding for that table.
	SeedMoviesCSV  string `koanf:"seed_movies_csv"`
	SeedRatingsCSV string `koanf:"seed_ratings_csv"`

	// CheckpointInterval is how often the WAL is folded into the database
	// file while running. Zero disables periodic checkpoints.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// CollaborativePath is the CSV of precomputed predictions
	// (UserId,ShowId,PredictedRating). Required: the server does not
	// start without it.
	CollaborativePath string `koanf:"collaborative_path"`

	// DefaultCount is used when a request omits count. Default: 10
	DefaultCount int `koanf:"default_count"`

	// MaxCount caps the count query parameter. Default: 100
	MaxCount int `koanf:"max_count"`

	// DefaultTopN is used when a collaborative request omits top_n. Default: 30
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN caps the top_n query parameter. Default: 500
	MaxTopN int `koanf:"max_top_n"`

	// OverfetchFactor sizes the hybrid candidate pool. Default: 2
	OverfetchFactor int `koanf:"overfetch_factor"`

	// CacheSize is the number of content-based lists kept in memory.
	// Zero disables the cache. Default: 1000
	CacheSize int `koanf:"cache_size"`

	// CacheTTL is how long a cached list is served. Default: 5m
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// ImportConfig holds settings for importing the legacy SQLite database.
type ImportConfig struct {
	// Enabled controls whether the import service is registered.
	Enabled bool `koanf:"enabled"`

	// SQLitePath is the legacy database file.
	SQLitePath string `koanf:"sqlite_path"`

	// Reader selects the SQLite access path: "gorm" (default) or "duckdb"
	// (DuckDB sqlite_scanner, needs the extension to be installable).
	Reader string `koanf:"reader"`

	// BatchSize is the number of rows read per keyset page.
	// Default: 1000
	BatchSize int `koanf:"batch_size"`

	// ProgressDir holds the badger checkpoint store. Empty keeps progress
	// in memory, so an interrupted import restarts from the beginning.
	ProgressDir string `koanf:"progress_dir"`

	// BatchesPerSecond throttles the import. 0 disables throttling.
	BatchesPerSecond float64 `koanf:"batches_per_second"`

	// DryRun reads and counts rows without writing to DuckDB.
	DryRun bool `koanf:"dry_run"`

	// AutoStart runs the import once at startup. When false the import
	// only runs through POST /api/v1/import/start.
	// Default: true
	AutoStart bool `koanf:"auto_start"`
}

// APIConfig holds HTTP API settings
type APIConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
}

// LoggingConfig holds logging configuration for zerolog.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}
