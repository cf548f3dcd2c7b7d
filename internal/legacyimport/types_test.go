// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"testing"
	"time"
)

func TestSourceCounts_Totals(t *testing.T) {
	t.Parallel()

	c := SourceCounts{
		Movies: 4, Ratings: 5, Favorites: 3, Watchlist: 2,
		MoviesWithoutID: 1, RatingsWithoutKey: 1, ListEntriesWithoutKey: 2,
	}
	if got := c.Total(); got != 14 {
		t.Errorf("Total() = %d, want 14", got)
	}
	if got := c.Unkeyed(); got != 4 {
		t.Errorf("Unkeyed() = %d, want 4", got)
	}
}

func TestImportStats_Progress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int64
		processed int64
		want      float64
	}{
		{"empty source", 0, 0, 0},
		{"half", 200, 100, 50},
		{"done", 10, 10, 100},
		{"clamped", 10, 12, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &ImportStats{TotalRecords: tt.total, Processed: tt.processed}
			if got := s.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImportStats_DurationAndRate(t *testing.T) {
	t.Parallel()

	if d := (&ImportStats{}).Duration(); d != 0 {
		t.Errorf("Duration() of unstarted import = %v", d)
	}

	start := time.Now().Add(-10 * time.Second)
	s := &ImportStats{StartTime: start, EndTime: start.Add(4 * time.Second), Processed: 100}
	if d := s.Duration(); d != 4*time.Second {
		t.Errorf("Duration() = %v, want 4s", d)
	}
	if r := s.RecordsPerSecond(); r != 25 {
		t.Errorf("RecordsPerSecond() = %v, want 25", r)
	}
}

func TestImportStats_ToSummary(t *testing.T) {
	t.Parallel()

	start := time.Now().Add(-10 * time.Second)
	tests := []struct {
		name    string
		stats   ImportStats
		running bool
		want    string
	}{
		{"idle", ImportStats{Phase: PhasePending}, false, "idle"},
		{"running", ImportStats{StartTime: start, Phase: PhaseMovies}, true, "running"},
		{"completed", ImportStats{StartTime: start, EndTime: time.Now(), Phase: PhaseDone}, false, "completed"},
		{"interrupted", ImportStats{StartTime: start, EndTime: time.Now(), Phase: PhaseRatings}, false, "interrupted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.stats.ToSummary(tt.running).Status; got != tt.want {
				t.Errorf("Status = %q, want %q", got, tt.want)
			}
		})
	}

	running := &ImportStats{StartTime: start, TotalRecords: 200, Processed: 100, ImportedMovies: 60, ImportedRatings: 40}
	sum := running.ToSummary(true)
	if sum.EstimatedRemain <= 0 {
		t.Errorf("EstimatedRemain = %v, want positive", sum.EstimatedRemain)
	}
	if sum.Progress != 50 || sum.ImportedMovies != 60 || sum.ImportedRatings != 40 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestImportStats_CloneCopiesCursor(t *testing.T) {
	t.Parallel()

	s := &ImportStats{LastRating: &RatingKey{UserID: 1, ShowID: "s1"}}
	c := s.clone()
	c.LastRating.UserID = 9
	if s.LastRating.UserID != 1 {
		t.Error("clone shares the rating cursor")
	}
}
