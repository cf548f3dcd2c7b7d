// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package recommend

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains result-size defaults and ceilings.
	Limits LimitsConfig `json:"limits"`

	// Hybrid contains parameters for hybrid ranking.
	Hybrid HybridConfig `json:"hybrid"`
}

// LimitsConfig bounds the size of recommendation lists.
type LimitsConfig struct {
	// DefaultCount is the number of content-based or hybrid results
	// returned when the caller does not ask for a specific count.
	DefaultCount int `json:"default_count"`

	// MaxCount is the largest count a caller may request.
	MaxCount int `json:"max_count"`

	// DefaultTopN is the number of collaborative ids returned by default.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN is the largest collaborative topN a caller may request.
	MaxTopN int `json:"max_top_n"`
}

// HybridConfig contains parameters for hybrid ranking.
type HybridConfig struct {
	// OverfetchFactor multiplies the requested count to size the
	// content-based candidate pool before re-ranking.
	OverfetchFactor int `json:"overfetch_factor"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultCount: 10,
			MaxCount:     100,
			DefaultTopN:  30,
			MaxTopN:      500,
		},
		Hybrid: HybridConfig{
			OverfetchFactor: 2,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Limits.DefaultCount < 0 {
		return fmt.Errorf("limits.default_count must be non-negative, got %d", c.Limits.DefaultCount)
	}
	if c.Limits.MaxCount < 1 {
		return fmt.Errorf("limits.max_count must be positive, got %d", c.Limits.MaxCount)
	}
	if c.Limits.DefaultCount > c.Limits.MaxCount {
		return fmt.Errorf("limits.default_count (%d) cannot exceed limits.max_count (%d)",
			c.Limits.DefaultCount, c.Limits.MaxCount)
	}
	if c.Limits.DefaultTopN < 0 {
		return fmt.Errorf("limits.default_top_n must be non-negative, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < 1 {
		return fmt.Errorf("limits.max_top_n must be positive, got %d", c.Limits.MaxTopN)
	}
	if c.Limits.DefaultTopN > c.Limits.MaxTopN {
		return fmt.Errorf("limits.default_top_n (%d) cannot exceed limits.max_top_n (%d)",
			c.Limits.DefaultTopN, c.Limits.MaxTopN)
	}
	if c.Hybrid.OverfetchFactor < 1 {
		return fmt.Errorf("hybrid.overfetch_factor must be at least 1, got %d", c.Hybrid.OverfetchFactor)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	return &Config{
		Limits: c.Limits,
		Hybrid: c.Hybrid,
	}
}

// String returns the configuration as JSON for logging.
func (c *Config) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
