// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"time"

	"github.com/tomtom215/cineniche/internal/models"
)

// Phase names the table an import is working through.
type Phase string

// Phases run in declaration order.
const (
	PhasePending   Phase = "pending"
	PhaseMovies    Phase = "movies"
	PhaseRatings   Phase = "ratings"
	PhaseFavorites Phase = "favorites"
	PhaseWatchlist Phase = "watchlist"
	PhaseDone      Phase = "done"
)

// listPhase ties a user list to the phase that imports it and the phase
// that follows.
type listPhase struct {
	list  models.UserList
	phase Phase
	next  Phase
}

var listPhases = []listPhase{
	{list: models.ListFavorites, phase: PhaseFavorites, next: PhaseWatchlist},
	{list: models.ListWatchlist, phase: PhaseWatchlist, next: PhaseDone},
}

// RatingKey is the keyset cursor for tables keyed by (user_id, show_id):
// movies_ratings and the user lists.
type RatingKey struct {
	UserID int    `json:"user_id"`
	ShowID string `json:"show_id"`
}

// SourceCounts describes the legacy database before an import starts.
// A legacy database without the user list tables reports zero for them.
type SourceCounts struct {
	Movies    int64 `json:"movies"`
	Ratings   int64 `json:"ratings"`
	Favorites int64 `json:"favorites"`
	Watchlist int64 `json:"watchlist"`

	// MoviesWithoutID, RatingsWithoutKey and ListEntriesWithoutKey count
	// rows that cannot be keyed (NULL or empty show id, NULL user_id) and
	// are skipped.
	MoviesWithoutID       int64 `json:"movies_without_id"`
	RatingsWithoutKey     int64 `json:"ratings_without_key"`
	ListEntriesWithoutKey int64 `json:"list_entries_without_key"`
}

// Total returns the number of rows across all tables.
func (c SourceCounts) Total() int64 {
	return c.Movies + c.Ratings + c.Favorites + c.Watchlist
}

// Unkeyed returns the rows no page will ever return.
func (c SourceCounts) Unkeyed() int64 {
	return c.MoviesWithoutID + c.RatingsWithoutKey + c.ListEntriesWithoutKey
}

// ImportStats holds statistics about an import operation. It doubles as
// the checkpoint persisted by a ProgressTracker.
type ImportStats struct {
	// TotalRecords is the number of rows in all source tables.
	TotalRecords int64 `json:"total_records"`

	// Processed is the number of rows read, including skipped ones.
	Processed int64 `json:"processed"`

	// ImportedMovies and ImportedRatings count rows written to DuckDB
	// (or counted, in a dry run).
	ImportedMovies    int64 `json:"imported_movies"`
	ImportedRatings   int64 `json:"imported_ratings"`
	ImportedFavorites int64 `json:"imported_favorites"`
	ImportedWatchlist int64 `json:"imported_watchlist"`

	// Skipped counts rows without a usable key.
	Skipped int64 `json:"skipped"`

	// Errors counts rows in batches that failed to write.
	Errors int64 `json:"errors"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Phase Phase `json:"phase"`

	// LastShowID is the movies cursor; the other Last fields are the
	// cursors of the (user_id, show_id) keyed tables.
	LastShowID    string     `json:"last_show_id,omitempty"`
	LastRating    *RatingKey `json:"last_rating,omitempty"`
	LastFavorite  *RatingKey `json:"last_favorite,omitempty"`
	LastWatchlist *RatingKey `json:"last_watchlist,omitempty"`

	DryRun bool `json:"dry_run"`
}

// Imported returns the rows written across all tables.
func (s *ImportStats) Imported() int64 {
	return s.ImportedMovies + s.ImportedRatings + s.ImportedFavorites + s.ImportedWatchlist
}

// listCursor returns the cursor field for a user list.
func (s *ImportStats) listCursor(list models.UserList) **RatingKey {
	if list == models.ListFavorites {
		return &s.LastFavorite
	}
	return &s.LastWatchlist
}

// listImported returns the imported counter for a user list.
func (s *ImportStats) listImported(list models.UserList) *int64 {
	if list == models.ListFavorites {
		return &s.ImportedFavorites
	}
	return &s.ImportedWatchlist
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the import progress as a percentage (0-100).
func (s *ImportStats) Progress() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return min(float64(s.Processed)/float64(s.TotalRecords)*100, 100)
}

// RecordsPerSecond returns the import rate.
func (s *ImportStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

func (s *ImportStats) clone() *ImportStats {
	c := *s
	c.LastRating = copyKey(s.LastRating)
	c.LastFavorite = copyKey(s.LastFavorite)
	c.LastWatchlist = copyKey(s.LastWatchlist)
	return &c
}

func copyKey(k *RatingKey) *RatingKey {
	if k == nil {
		return nil
	}
	c := *k
	return &c
}

// ProgressSummary is the API view of an import.
type ProgressSummary struct {
	Status            string    `json:"status"`
	Phase             Phase     `json:"phase"`
	Progress          float64   `json:"progress"`
	TotalRecords      int64     `json:"total_records"`
	Processed         int64     `json:"processed"`
	ImportedMovies    int64     `json:"imported_movies"`
	ImportedRatings   int64     `json:"imported_ratings"`
	ImportedFavorites int64     `json:"imported_favorites"`
	ImportedWatchlist int64     `json:"imported_watchlist"`
	Skipped           int64     `json:"skipped"`
	Errors            int64     `json:"errors"`
	RecordsPerSec     float64   `json:"records_per_second"`
	ElapsedSeconds    float64   `json:"elapsed_seconds"`
	EstimatedRemain   float64   `json:"estimated_remaining_seconds"`
	StartTime         time.Time `json:"start_time"`
	DryRun            bool      `json:"dry_run"`
}

// ToSummary converts ImportStats to a ProgressSummary with calculated fields.
func (s *ImportStats) ToSummary(running bool) *ProgressSummary {
	summary := &ProgressSummary{
		Phase:             s.Phase,
		Progress:          s.Progress(),
		TotalRecords:      s.TotalRecords,
		Processed:         s.Processed,
		ImportedMovies:    s.ImportedMovies,
		ImportedRatings:   s.ImportedRatings,
		ImportedFavorites: s.ImportedFavorites,
		ImportedWatchlist: s.ImportedWatchlist,
		Skipped:           s.Skipped,
		Errors:            s.Errors,
		RecordsPerSec:     s.RecordsPerSecond(),
		ElapsedSeconds:    s.Duration().Seconds(),
		StartTime:         s.StartTime,
		DryRun:            s.DryRun,
	}

	switch {
	case running:
		summary.Status = "running"
	case s.StartTime.IsZero():
		summary.Status = "idle"
	case s.Phase == PhaseDone:
		summary.Status = "completed"
	default:
		summary.Status = "interrupted"
	}

	if running && summary.RecordsPerSec > 0 {
		remaining := s.TotalRecords - s.Processed
		summary.EstimatedRemain = float64(max(remaining, 0)) / summary.RecordsPerSec
	}

	return summary
}
