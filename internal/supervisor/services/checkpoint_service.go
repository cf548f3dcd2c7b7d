// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// checkpointTimeout bounds a single CHECKPOINT.
const checkpointTimeout = 30 * time.Second

// Checkpointer is implemented by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService folds the DuckDB WAL into the database file on a
// fixed interval, so a crash replays a short log. A failed checkpoint is
// logged and retried on the next tick.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates the service. A non-positive interval makes
// Serve idle until shutdown.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout
func NewCheckpointService(db Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	return &CheckpointService{
		db:       db,
		interval: interval,
		logger:   logger.With().Str("service", "checkpoint").Logger(),
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info().Msg("Periodic checkpoints disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Debug().Dur("interval", s.interval).Msg("Checkpoint service running")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.checkpoint(ctx)
		}
	}
}

func (s *CheckpointService) checkpoint(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, checkpointTimeout)
	defer cancel()

	start := time.Now()
	if err := s.db.Checkpoint(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Checkpoint failed, will retry")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("Checkpoint complete")
}

func (s *CheckpointService) String() string {
	return s.name
}
