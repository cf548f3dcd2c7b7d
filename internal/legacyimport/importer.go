// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cineniche/internal/config"
	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/models"
)

var (
	// ErrImportRunning is returned by Import while another import is active.
	ErrImportRunning = errors.New("import already in progress")

	// ErrNotRunning is returned by Stop when no import is active.
	ErrNotRunning = errors.New("no import in progress")

	// ErrStopped is returned by Import after Stop interrupts it.
	ErrStopped = errors.New("import stopped")
)

// Writer receives imported rows. *database.DB implements it.
type Writer interface {
	UpsertMovies(ctx context.Context, movies []models.Movie) (int, error)
	UpsertRatings(ctx context.Context, ratings []models.Rating) (int, error)
	UpsertListEntries(ctx context.Context, list models.UserList, entries []models.ListEntry) (int, error)
}

// Importer copies movies_titles, movies_ratings and the favorites and
// watchlist tables from a legacy SQLite database into the catalog,
// movies first so the other tables can reference them. Progress is
// checkpointed after every batch.
type Importer struct {
	cfg      *config.ImportConfig
	reader   Reader
	writer   Writer
	progress ProgressTracker
	limiter  *rate.Limiter
	logger   zerolog.Logger

	mu       sync.RWMutex
	running  bool
	stats    *ImportStats
	stopChan chan struct{}
}

// NewImporter creates an importer. A BatchesPerSecond of zero disables
// throttling.
func NewImporter(cfg *config.ImportConfig, reader Reader, writer Writer, progress ProgressTracker, logger zerolog.Logger) *Importer {
	limit := rate.Inf
	if cfg.BatchesPerSecond > 0 {
		limit = rate.Limit(cfg.BatchesPerSecond)
	}
	return &Importer{
		cfg:      cfg,
		reader:   reader,
		writer:   writer,
		progress: progress,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With().Str("component", "legacy_import").Logger(),
		stopChan: make(chan struct{}),
	}
}

// Import runs (or resumes) an import until every table is exhausted,
// ctx is canceled or Stop is called. It returns the final statistics.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportRunning
	}
	i.running = true
	i.stats = &ImportStats{
		StartTime: time.Now(),
		Phase:     PhaseMovies,
		DryRun:    i.cfg.DryRun,
	}
	stop := i.stopChan
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.stats.EndTime = time.Now()
		i.mu.Unlock()
	}()

	counts, err := i.reader.Counts(ctx)
	if err != nil {
		return i.GetStats(), fmt.Errorf("count records: %w", err)
	}

	if err := i.prepare(ctx, counts); err != nil {
		return i.GetStats(), err
	}

	i.logger.Info().
		Int64("movies", counts.Movies).
		Int64("ratings", counts.Ratings).
		Int64("favorites", counts.Favorites).
		Int64("watchlist", counts.Watchlist).
		Int64("unkeyed", counts.Unkeyed()).
		Int("batch_size", i.cfg.BatchSize).
		Bool("dry_run", i.cfg.DryRun).
		Msg("Starting legacy import")

	if err := i.importMovies(ctx, stop); err != nil {
		return i.GetStats(), err
	}
	if err := i.importRatings(ctx, stop); err != nil {
		return i.GetStats(), err
	}
	for _, lp := range listPhases {
		if err := i.importList(ctx, stop, lp); err != nil {
			return i.GetStats(), err
		}
	}

	if !i.cfg.DryRun {
		metrics.MarkLegacyImportSuccess()
	}

	final := i.GetStats()
	i.logger.Info().
		Int64("imported_movies", final.ImportedMovies).
		Int64("imported_ratings", final.ImportedRatings).
		Int64("imported_favorites", final.ImportedFavorites).
		Int64("imported_watchlist", final.ImportedWatchlist).
		Int64("skipped", final.Skipped).
		Int64("errors", final.Errors).
		Dur("duration", final.Duration()).
		Msg("Legacy import completed")

	return final, nil
}

// prepare sets totals and, unless this is a dry run, restores an
// unfinished checkpoint. Unkeyed rows are counted as skipped up front
// since no page will ever return them.
func (i *Importer) prepare(ctx context.Context, counts SourceCounts) error {
	var saved *ImportStats
	if !i.cfg.DryRun {
		var err error
		saved, err = i.progress.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.stats.TotalRecords = counts.Total()

	if saved != nil && saved.Phase != PhaseDone {
		i.stats.Phase = saved.Phase
		i.stats.LastShowID = saved.LastShowID
		i.stats.LastRating = saved.LastRating
		i.stats.LastFavorite = saved.LastFavorite
		i.stats.LastWatchlist = saved.LastWatchlist
		i.stats.Processed = saved.Processed
		i.stats.ImportedMovies = saved.ImportedMovies
		i.stats.ImportedRatings = saved.ImportedRatings
		i.stats.ImportedFavorites = saved.ImportedFavorites
		i.stats.ImportedWatchlist = saved.ImportedWatchlist
		i.stats.Skipped = saved.Skipped
		i.stats.Errors = saved.Errors

		i.logger.Info().
			Str("phase", string(saved.Phase)).
			Str("last_show_id", saved.LastShowID).
			Int64("processed", saved.Processed).
			Msg("Resuming legacy import from checkpoint")
		return nil
	}

	unkeyed := counts.Unkeyed()
	i.stats.Skipped = unkeyed
	i.stats.Processed = unkeyed
	metrics.RecordLegacyImport(moviesTable, 0, int(counts.MoviesWithoutID), 0)
	metrics.RecordLegacyImport(ratingsTable, 0, int(counts.RatingsWithoutKey), 0)
	metrics.RecordLegacyImport("user_lists", 0, int(counts.ListEntriesWithoutKey), 0)
	return nil
}

// wait blocks for the throttle and reports cancellation.
func (i *Importer) wait(ctx context.Context, stop <-chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stop:
		return ErrStopped
	default:
	}
	return i.limiter.Wait(ctx)
}

func (i *Importer) importMovies(ctx context.Context, stop <-chan struct{}) error {
	i.mu.RLock()
	phase, after := i.stats.Phase, i.stats.LastShowID
	i.mu.RUnlock()
	if phase != PhaseMovies {
		return nil
	}

	for {
		if err := i.wait(ctx, stop); err != nil {
			return err
		}

		start := time.Now()
		batch, err := i.reader.ReadMovies(ctx, after, i.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("read movies: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		imported, errored := len(batch), 0
		if !i.cfg.DryRun {
			if _, err := i.writer.UpsertMovies(ctx, batch); err != nil {
				i.logger.Error().Err(err).
					Str("from_show_id", batch[0].ShowID).
					Int("rows", len(batch)).
					Msg("Failed to write movie batch")
				imported, errored = 0, len(batch)
			}
		}
		after = batch[len(batch)-1].ShowID

		i.mu.Lock()
		i.stats.Processed += int64(len(batch))
		i.stats.ImportedMovies += int64(imported)
		i.stats.Errors += int64(errored)
		i.stats.LastShowID = after
		i.mu.Unlock()

		metrics.RecordLegacyImport(moviesTable, imported, 0, errored)
		metrics.RecordLegacyImportBatch(time.Since(start))
		i.checkpoint(ctx)
		i.logProgress()
	}

	i.mu.Lock()
	i.stats.Phase = PhaseRatings
	i.mu.Unlock()
	i.checkpoint(ctx)
	return nil
}

func (i *Importer) importRatings(ctx context.Context, stop <-chan struct{}) error {
	i.mu.RLock()
	phase, after := i.stats.Phase, copyKey(i.stats.LastRating)
	i.mu.RUnlock()
	if phase != PhaseRatings {
		return nil
	}

	for {
		if err := i.wait(ctx, stop); err != nil {
			return err
		}

		start := time.Now()
		batch, err := i.reader.ReadRatings(ctx, after, i.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("read ratings: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		imported, errored := len(batch), 0
		if !i.cfg.DryRun {
			if _, err := i.writer.UpsertRatings(ctx, batch); err != nil {
				i.logger.Error().Err(err).
					Int("from_user_id", batch[0].UserID).
					Int("rows", len(batch)).
					Msg("Failed to write rating batch")
				imported, errored = 0, len(batch)
			}
		}
		last := batch[len(batch)-1]
		after = &RatingKey{UserID: last.UserID, ShowID: last.ShowID}

		i.mu.Lock()
		i.stats.Processed += int64(len(batch))
		i.stats.ImportedRatings += int64(imported)
		i.stats.Errors += int64(errored)
		i.stats.LastRating = &RatingKey{UserID: last.UserID, ShowID: last.ShowID}
		i.mu.Unlock()

		metrics.RecordLegacyImport(ratingsTable, imported, 0, errored)
		metrics.RecordLegacyImportBatch(time.Since(start))
		i.checkpoint(ctx)
		i.logProgress()
	}

	i.mu.Lock()
	i.stats.Phase = PhaseFavorites
	i.mu.Unlock()
	i.checkpoint(ctx)
	return nil
}

// importList copies one user list when the import is in its phase, then
// advances to the next phase.
func (i *Importer) importList(ctx context.Context, stop <-chan struct{}, lp listPhase) error {
	i.mu.RLock()
	phase, after := i.stats.Phase, copyKey(*i.stats.listCursor(lp.list))
	i.mu.RUnlock()
	if phase != lp.phase {
		return nil
	}
	table := legacyListTable(lp.list)

	for {
		if err := i.wait(ctx, stop); err != nil {
			return err
		}

		start := time.Now()
		batch, err := i.reader.ReadListEntries(ctx, lp.list, after, i.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("read %s: %w", lp.list, err)
		}
		if len(batch) == 0 {
			break
		}

		imported, errored := len(batch), 0
		if !i.cfg.DryRun {
			if _, err := i.writer.UpsertListEntries(ctx, lp.list, batch); err != nil {
				i.logger.Error().Err(err).
					Str("list", string(lp.list)).
					Int("from_user_id", batch[0].UserID).
					Int("rows", len(batch)).
					Msg("Failed to write list batch")
				imported, errored = 0, len(batch)
			}
		}
		last := batch[len(batch)-1]
		after = &RatingKey{UserID: last.UserID, ShowID: last.ShowID}

		i.mu.Lock()
		i.stats.Processed += int64(len(batch))
		*i.stats.listImported(lp.list) += int64(imported)
		i.stats.Errors += int64(errored)
		*i.stats.listCursor(lp.list) = copyKey(after)
		i.mu.Unlock()

		metrics.RecordLegacyImport(table, imported, 0, errored)
		metrics.RecordLegacyImportBatch(time.Since(start))
		i.checkpoint(ctx)
		i.logProgress()
	}

	i.mu.Lock()
	i.stats.Phase = lp.next
	i.mu.Unlock()
	i.checkpoint(ctx)
	return nil
}

// checkpoint persists the current stats. Failures are logged; the import
// continues and a restart re-imports at most the unsaved batches.
func (i *Importer) checkpoint(ctx context.Context) {
	if i.cfg.DryRun {
		return
	}
	if err := i.progress.Save(ctx, i.GetStats()); err != nil {
		i.logger.Warn().Err(err).Msg("Failed to save import progress")
	}
}

func (i *Importer) logProgress() {
	s := i.GetStats()
	i.logger.Info().
		Str("phase", string(s.Phase)).
		Int64("processed", s.Processed).
		Int64("total", s.TotalRecords).
		Float64("progress_percent", s.Progress()).
		Float64("records_per_second", s.RecordsPerSecond()).
		Msg("Import progress")
}

// Stop interrupts a running import. Its checkpoint is kept, so the next
// Import resumes where this one stopped.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return ErrNotRunning
	}
	close(i.stopChan)
	i.stopChan = make(chan struct{})
	return nil
}

// Reset clears saved progress so the next Import starts from scratch.
func (i *Importer) Reset(ctx context.Context) error {
	if i.IsRunning() {
		return ErrImportRunning
	}
	return i.progress.Clear(ctx)
}

// GetStats returns a copy of the current import statistics.
func (i *Importer) GetStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &ImportStats{Phase: PhasePending}
	}
	return i.stats.clone()
}

// IsRunning returns whether an import is currently in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}

// Summary returns the API view of the current or last import.
func (i *Importer) Summary() *ProgressSummary {
	i.mu.RLock()
	running := i.running
	i.mu.RUnlock()
	return i.GetStats().ToSummary(running)
}
