// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/cineniche/internal/api"
	"github.com/tomtom215/cineniche/internal/config"
	"github.com/tomtom215/cineniche/internal/database"
	"github.com/tomtom215/cineniche/internal/legacyimport"
	"github.com/tomtom215/cineniche/internal/logging"
	"github.com/tomtom215/cineniche/internal/models"
	"github.com/tomtom215/cineniche/internal/supervisor"
	"github.com/tomtom215/cineniche/internal/supervisor/services"
)

// ImportComponents holds the legacy import pieces that need closing at
// shutdown.
type ImportComponents struct {
	importer *legacyimport.Importer
	service  *services.ImportService
	reader   legacyimport.Reader
	progress legacyimport.ProgressTracker
}

// newImportReader opens the legacy database with the configured reader.
func newImportReader(cfg *config.ImportConfig) (legacyimport.Reader, error) {
	switch cfg.Reader {
	case "", "gorm":
		r, err := legacyimport.NewGormReader(cfg.SQLitePath, logging.WithComponent("legacy_import"))
		if err != nil {
			return nil, err
		}
		return r, nil
	case "duckdb":
		r, err := legacyimport.NewDuckDBReader(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown import reader %q", cfg.Reader)
	}
}

// newProgressTracker uses badger when a progress directory is configured
// so an interrupted import resumes after a restart.
func newProgressTracker(cfg *config.ImportConfig) (legacyimport.ProgressTracker, error) {
	if cfg.ProgressDir == "" {
		logging.Info().Msg("Import progress tracker created (in-memory)")
		return legacyimport.NewInMemoryProgress(), nil
	}
	progress, err := legacyimport.OpenBadgerProgress(cfg.ProgressDir)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("dir", cfg.ProgressDir).Msg("Import progress tracker created (badger)")
	return progress, nil
}

// catalogWriter runs onMovies after every batch that wrote movies, so
// cached similarity lists do not outlive an import.
type catalogWriter struct {
	legacyimport.Writer
	onMovies func()
}

func (w catalogWriter) UpsertMovies(ctx context.Context, movies []models.Movie) (int, error) {
	n, err := w.Writer.UpsertMovies(ctx, movies)
	if n > 0 && w.onMovies != nil {
		w.onMovies()
	}
	return n, err
}

// InitImport wires the legacy import into the worker layer. It returns
// nil when the import is disabled. onMovies may be nil.
func InitImport(cfg *config.Config, db *database.DB, tree *supervisor.SupervisorTree, onMovies func()) (*ImportComponents, error) {
	if !cfg.Import.Enabled {
		logging.Info().Msg("Legacy import disabled (IMPORT_ENABLED=false)")
		return nil, nil
	}

	reader, err := newImportReader(&cfg.Import)
	if err != nil {
		return nil, fmt.Errorf("open legacy database: %w", err)
	}

	progress, err := newProgressTracker(&cfg.Import)
	if err != nil {
		_ = reader.Close()
		return nil, fmt.Errorf("open import progress: %w", err)
	}

	writer := catalogWriter{Writer: db, onMovies: onMovies}
	importer := legacyimport.NewImporter(&cfg.Import, reader, writer, progress, logging.Logger())
	service := services.NewImportService(importer, cfg.Import.AutoStart)
	tree.AddWorkerService(service)

	logging.Info().
		Str("sqlite_path", cfg.Import.SQLitePath).
		Str("reader", cfg.Import.Reader).
		Int("batch_size", cfg.Import.BatchSize).
		Bool("auto_start", cfg.Import.AutoStart).
		Bool("dry_run", cfg.Import.DryRun).
		Msg("Legacy import service added to supervisor tree")

	return &ImportComponents{importer: importer, service: service, reader: reader, progress: progress}, nil
}

// importControl serves the admin import endpoints: runs are queued on
// the supervised service, everything else goes to the importer.
type importControl struct {
	*legacyimport.Importer
	service *services.ImportService
}

func (c importControl) Start() error { return c.service.Start() }

// Controller returns the admin import controls, or nil when the import
// is disabled.
func (c *ImportComponents) Controller() api.ImportController {
	if c == nil {
		return nil
	}
	return importControl{Importer: c.importer, service: c.service}
}

// Close releases the reader and the progress tracker.
func (c *ImportComponents) Close() {
	if c == nil {
		return
	}
	if err := c.reader.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing legacy database")
	}
	if closer, ok := c.progress.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing import progress store")
		}
	}
}
