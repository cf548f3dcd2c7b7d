// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package config

import (
	"fmt"
	"time"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
	maxImportBatchSize   = 10000
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validImportReaders = map[string]bool{
	"gorm":   true,
	"duckdb": true,
}

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	if c.Database.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.CollaborativePath == "" {
		return fmt.Errorf("COLLAB_CSV_PATH is required")
	}
	if r.MaxCount < 1 {
		return fmt.Errorf("RECOMMEND_MAX_COUNT must be at least 1")
	}
	if r.DefaultCount < 0 || r.DefaultCount > r.MaxCount {
		return fmt.Errorf("RECOMMEND_DEFAULT_COUNT must be between 0 and %d", r.MaxCount)
	}
	if r.MaxTopN < 1 {
		return fmt.Errorf("RECOMMEND_MAX_TOP_N must be at least 1")
	}
	if r.DefaultTopN < 0 || r.DefaultTopN > r.MaxTopN {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be between 0 and %d", r.MaxTopN)
	}
	if r.OverfetchFactor < 1 {
		return fmt.Errorf("RECOMMEND_OVERFETCH_FACTOR must be at least 1")
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must not be negative")
	}
	if r.CacheSize > 0 && r.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

// validateImport validates import configuration (only if enabled)
func (c *Config) validateImport() error {
	if !c.Import.Enabled {
		return nil
	}
	if c.Import.SQLitePath == "" {
		return fmt.Errorf("IMPORT_SQLITE_PATH is required when IMPORT_ENABLED=true")
	}
	if !validImportReaders[c.Import.Reader] {
		return fmt.Errorf("IMPORT_READER must be one of: gorm, duckdb")
	}
	if c.Import.BatchSize < 1 || c.Import.BatchSize > maxImportBatchSize {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be between 1 and %d", maxImportBatchSize)
	}
	if c.Import.BatchesPerSecond < 0 {
		return fmt.Errorf("IMPORT_BATCHES_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.API.RateLimitDisabled {
		return nil
	}
	if c.API.RateLimitReqs < minRateLimitRequests || c.API.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.API.RateLimitWindow < minRateLimitWindow || c.API.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
