// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package main

import (
	"fmt"

	"github.com/tomtom215/cineniche/internal/config"
	"github.com/tomtom215/cineniche/internal/database"
	"github.com/tomtom215/cineniche/internal/logging"
	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/recommend"
)

// buildEngineConfig maps the recommend config section onto the engine's
// own config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	engineCfg := recommend.DefaultConfig()
	engineCfg.Limits.DefaultCount = cfg.Recommend.DefaultCount
	engineCfg.Limits.MaxCount = cfg.Recommend.MaxCount
	engineCfg.Limits.DefaultTopN = cfg.Recommend.DefaultTopN
	engineCfg.Limits.MaxTopN = cfg.Recommend.MaxTopN
	engineCfg.Hybrid.OverfetchFactor = cfg.Recommend.OverfetchFactor
	return engineCfg
}

// initRecommend loads the collaborative table and builds the engine.
// Both failures are fatal to startup.
func initRecommend(cfg *config.Config, db *database.DB) (*recommend.Engine, error) {
	collab, err := recommend.LoadCollaborativeTable(cfg.Recommend.CollaborativePath)
	if err != nil {
		return nil, fmt.Errorf("load collaborative table: %w", err)
	}
	metrics.SetCollaborativeTable(collab.Len(), collab.Users())
	logging.Info().
		Str("path", collab.Source()).
		Int("rows", collab.Len()).
		Int("users", collab.Users()).
		Msg("Collaborative table loaded")

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), db, db, collab, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	return engine, nil
}
