// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tomtom215/cineniche/internal/legacyimport"
	"github.com/tomtom215/cineniche/internal/logging"
)

// requestedRunTimeout bounds an import queued with Start.
const requestedRunTimeout = 30 * time.Minute

// Importer is the part of *legacyimport.Importer the service drives.
type Importer interface {
	Import(ctx context.Context) (*legacyimport.ImportStats, error)
	IsRunning() bool
}

// ImportService runs the legacy import under supervision. Every run goes
// through Serve, including those requested over HTTP with Start, so a
// shutdown cancels the run and Serve returns only once it has ended.
//
// With autoStart the import runs as soon as the tree starts. A failed
// automatic run returns its error and suture retries it, resuming from
// the last checkpoint; a finished one is not repeated on restart. The
// service then waits for Start requests.
type ImportService struct {
	importer   Importer
	name       string
	autoStart  bool
	autoDone   atomic.Bool
	runTimeout time.Duration
	requests   chan struct{}
}

// NewImportService creates the wrapper.
func NewImportService(importer Importer, autoStart bool) *ImportService {
	return &ImportService{
		importer:   importer,
		name:       "legacy-import",
		autoStart:  autoStart,
		runTimeout: requestedRunTimeout,
		requests:   make(chan struct{}, 1),
	}
}

// Start queues an import for Serve to run. It returns
// legacyimport.ErrImportRunning when one is running or already queued.
func (s *ImportService) Start() error {
	if s.importer.IsRunning() {
		return legacyimport.ErrImportRunning
	}
	select {
	case s.requests <- struct{}{}:
		return nil
	default:
		return legacyimport.ErrImportRunning
	}
}

// Serve implements suture.Service.
func (s *ImportService) Serve(ctx context.Context) error {
	if s.autoStart && !s.autoDone.Load() {
		logging.Info().Msg("Starting legacy database import")
		err := s.run(ctx)
		if ctx.Err() != nil {
			logging.Info().Msg("Legacy import canceled due to shutdown")
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("legacy import failed: %w", err)
		}
		s.autoDone.Store(true)
	} else {
		logging.Info().Msg("Legacy import service started (on-demand mode)")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.requests:
			runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
			err := s.run(runCtx)
			cancel()
			if ctx.Err() != nil {
				logging.Info().Msg("Legacy import canceled due to shutdown")
				return ctx.Err()
			}
			if err != nil {
				logging.Error().Err(err).Msg("Requested legacy import failed")
			}
		}
	}
}

// run performs one import. A stop request or a run already in progress
// is not a failure.
func (s *ImportService) run(ctx context.Context) error {
	stats, err := s.importer.Import(ctx)
	switch {
	case err == nil:
		logging.Info().
			Int64("imported_movies", stats.ImportedMovies).
			Int64("imported_ratings", stats.ImportedRatings).
			Int64("imported_favorites", stats.ImportedFavorites).
			Int64("imported_watchlist", stats.ImportedWatchlist).
			Int64("skipped", stats.Skipped).
			Int64("errors", stats.Errors).
			Msg("Legacy import completed")
		return nil
	case errors.Is(err, legacyimport.ErrImportRunning):
		logging.Info().Msg("Legacy import already running, not starting another")
		return nil
	case errors.Is(err, legacyimport.ErrStopped):
		logging.Info().Msg("Legacy import stopped on request")
		return nil
	default:
		return err
	}
}

func (s *ImportService) String() string {
	return s.name
}
