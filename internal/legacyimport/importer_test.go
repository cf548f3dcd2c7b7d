// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cineniche/internal/config"
	"github.com/tomtom215/cineniche/internal/models"
)

// memReader serves keyset pages from in-memory slices.
type memReader struct {
	movies  []models.Movie
	ratings []models.Rating
	lists   map[models.UserList][]models.ListEntry
	counts  SourceCounts

	countErr error
	readErr  error
}

func newMemReader(nMovies, nUsers int) *memReader {
	r := &memReader{lists: map[models.UserList][]models.ListEntry{}}
	for i := 0; i < nMovies; i++ {
		r.movies = append(r.movies, models.Movie{ShowID: "s" + string(rune('a'+i))})
	}
	for u := 1; u <= nUsers; u++ {
		for _, m := range r.movies {
			r.ratings = append(r.ratings, models.Rating{UserID: u, ShowID: m.ShowID})
		}
	}
	r.counts = SourceCounts{Movies: int64(len(r.movies)), Ratings: int64(len(r.ratings))}
	return r
}

func (r *memReader) Counts(context.Context) (SourceCounts, error) {
	return r.counts, r.countErr
}

func (r *memReader) ReadMovies(_ context.Context, after string, limit int) ([]models.Movie, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	var out []models.Movie
	for _, m := range r.movies {
		if m.ShowID > after && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memReader) ReadRatings(_ context.Context, after *RatingKey, limit int) ([]models.Rating, error) {
	var out []models.Rating
	for _, rt := range r.ratings {
		if after != nil && (rt.UserID < after.UserID || (rt.UserID == after.UserID && rt.ShowID <= after.ShowID)) {
			continue
		}
		if len(out) < limit {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *memReader) ReadListEntries(_ context.Context, list models.UserList, after *RatingKey, limit int) ([]models.ListEntry, error) {
	var out []models.ListEntry
	for _, e := range r.lists[list] {
		if after != nil && (e.UserID < after.UserID || (e.UserID == after.UserID && e.ShowID <= after.ShowID)) {
			continue
		}
		if len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

// addList gives userID every movie on list.
func (r *memReader) addList(list models.UserList, userID int) {
	for _, m := range r.movies {
		r.lists[list] = append(r.lists[list], models.ListEntry{UserID: userID, ShowID: m.ShowID})
	}
	n := int64(len(r.movies))
	if list == models.ListFavorites {
		r.counts.Favorites += n
	} else {
		r.counts.Watchlist += n
	}
}

func (r *memReader) Close() error { return nil }

// mockWriter records upserted keys. onMovies runs before each movie batch.
type mockWriter struct {
	mu       sync.Mutex
	movies   map[string]bool
	ratings  map[RatingKey]bool
	lists    map[models.UserList]map[RatingKey]bool
	batches  int
	movieErr error
	onMovies func()
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		movies:  map[string]bool{},
		ratings: map[RatingKey]bool{},
		lists:   map[models.UserList]map[RatingKey]bool{},
	}
}

func (w *mockWriter) UpsertMovies(_ context.Context, movies []models.Movie) (int, error) {
	if w.onMovies != nil {
		w.onMovies()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches++
	if w.movieErr != nil {
		return 0, w.movieErr
	}
	for _, m := range movies {
		w.movies[m.ShowID] = true
	}
	return len(movies), nil
}

func (w *mockWriter) UpsertRatings(_ context.Context, ratings []models.Rating) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches++
	for _, r := range ratings {
		w.ratings[RatingKey{r.UserID, r.ShowID}] = true
	}
	return len(ratings), nil
}

func (w *mockWriter) UpsertListEntries(_ context.Context, list models.UserList, entries []models.ListEntry) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches++
	if w.lists[list] == nil {
		w.lists[list] = map[RatingKey]bool{}
	}
	for _, e := range entries {
		w.lists[list][RatingKey{e.UserID, e.ShowID}] = true
	}
	return len(entries), nil
}

func importCfg(batch int) *config.ImportConfig {
	return &config.ImportConfig{Enabled: true, SQLitePath: "legacy.db", Reader: "gorm", BatchSize: batch}
}

func TestImporter_FullImport(t *testing.T) {
	t.Parallel()

	reader := newMemReader(5, 2)
	reader.counts.MoviesWithoutID = 1
	reader.counts.Movies++
	reader.addList(models.ListFavorites, 1)
	reader.addList(models.ListWatchlist, 2)
	writer := newMockWriter()
	progress := NewInMemoryProgress()

	imp := NewImporter(importCfg(2), reader, writer, progress, zerolog.Nop())
	stats, err := imp.Import(t.Context())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if stats.ImportedMovies != 5 || stats.ImportedRatings != 10 {
		t.Errorf("imported = %d movies / %d ratings, want 5 / 10", stats.ImportedMovies, stats.ImportedRatings)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if stats.Processed != stats.TotalRecords {
		t.Errorf("Processed = %d, want total %d", stats.Processed, stats.TotalRecords)
	}
	if stats.Phase != PhaseDone {
		t.Errorf("Phase = %s, want done", stats.Phase)
	}
	if stats.ImportedFavorites != 5 || stats.ImportedWatchlist != 5 {
		t.Errorf("imported = %d favorites / %d watchlist, want 5 / 5", stats.ImportedFavorites, stats.ImportedWatchlist)
	}
	if len(writer.movies) != 5 || len(writer.ratings) != 10 {
		t.Errorf("writer saw %d movies / %d ratings", len(writer.movies), len(writer.ratings))
	}
	if !writer.lists[models.ListFavorites][RatingKey{1, "se"}] || !writer.lists[models.ListWatchlist][RatingKey{2, "sa"}] {
		t.Errorf("writer lists = %v", writer.lists)
	}
	// 3 movie, 5 rating, 3 favorites and 3 watchlist batches
	if writer.batches != 14 {
		t.Errorf("batches = %d, want 14", writer.batches)
	}

	saved, _ := progress.Load(t.Context())
	if saved == nil || saved.Phase != PhaseDone {
		t.Errorf("saved progress = %+v, want done", saved)
	}
	if imp.IsRunning() {
		t.Error("IsRunning() after Import returned")
	}
	if got := imp.Summary().Status; got != "completed" {
		t.Errorf("Summary().Status = %q, want completed", got)
	}
}

func TestImporter_DryRun(t *testing.T) {
	t.Parallel()

	cfg := importCfg(10)
	cfg.DryRun = true
	writer := newMockWriter()
	progress := NewInMemoryProgress()

	stats, err := NewImporter(cfg, newMemReader(3, 1), writer, progress, zerolog.Nop()).Import(t.Context())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if writer.batches != 0 {
		t.Errorf("dry run wrote %d batches", writer.batches)
	}
	if stats.ImportedMovies != 3 || stats.ImportedRatings != 3 || !stats.DryRun {
		t.Errorf("stats = %+v", stats)
	}
	if saved, _ := progress.Load(t.Context()); saved != nil {
		t.Errorf("dry run saved progress %+v", saved)
	}
}

func TestImporter_StopAndResume(t *testing.T) {
	t.Parallel()

	reader := newMemReader(6, 1)
	writer := newMockWriter()
	progress := NewInMemoryProgress()
	imp := NewImporter(importCfg(2), reader, writer, progress, zerolog.Nop())

	var once sync.Once
	writer.onMovies = func() {
		once.Do(func() {
			if err := imp.Stop(); err != nil {
				t.Errorf("Stop() error = %v", err)
			}
		})
	}

	stats, err := imp.Import(t.Context())
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("Import() error = %v, want ErrStopped", err)
	}
	if stats.ImportedMovies != 2 || stats.LastShowID != "sb" {
		t.Errorf("stopped stats = %+v, want 2 movies up to sb", stats)
	}
	if got := imp.Summary().Status; got != "interrupted" {
		t.Errorf("Summary().Status = %q, want interrupted", got)
	}

	writer.onMovies = nil
	stats, err = imp.Import(t.Context())
	if err != nil {
		t.Fatalf("resumed Import() error = %v", err)
	}
	if stats.ImportedMovies != 6 || stats.ImportedRatings != 6 {
		t.Errorf("resumed stats = %+v, want 6 movies / 6 ratings", stats)
	}
	// sa and sb were not re-sent: 3 movie batches in total, 3 rating batches
	if writer.batches != 6 {
		t.Errorf("batches = %d, want 6", writer.batches)
	}
}

func TestImporter_ResumesListPhase(t *testing.T) {
	t.Parallel()

	reader := newMemReader(3, 1)
	reader.addList(models.ListFavorites, 1)
	reader.addList(models.ListWatchlist, 1)
	writer := newMockWriter()
	progress := NewInMemoryProgress()
	saved := &ImportStats{
		Phase:             PhaseWatchlist,
		LastShowID:        "sc",
		LastRating:        &RatingKey{1, "sc"},
		LastFavorite:      &RatingKey{1, "sc"},
		LastWatchlist:     &RatingKey{1, "sa"},
		Processed:         10,
		ImportedMovies:    3,
		ImportedRatings:   3,
		ImportedFavorites: 3,
		ImportedWatchlist: 1,
	}
	if err := progress.Save(t.Context(), saved); err != nil {
		t.Fatal(err)
	}

	stats, err := NewImporter(importCfg(5), reader, writer, progress, zerolog.Nop()).Import(t.Context())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(writer.movies) != 0 || len(writer.ratings) != 0 || len(writer.lists[models.ListFavorites]) != 0 {
		t.Errorf("finished phases were re-sent: %d movies, %d ratings, %d favorites",
			len(writer.movies), len(writer.ratings), len(writer.lists[models.ListFavorites]))
	}
	watch := writer.lists[models.ListWatchlist]
	if len(watch) != 2 || watch[RatingKey{1, "sa"}] {
		t.Errorf("watchlist writes = %v, want sb and sc", watch)
	}
	if stats.ImportedWatchlist != 3 || stats.Phase != PhaseDone {
		t.Errorf("stats = %+v, want 3 watchlist entries and done", stats)
	}
}

func TestImporter_AlreadyRunning(t *testing.T) {
	t.Parallel()

	writer := newMockWriter()
	imp := NewImporter(importCfg(5), newMemReader(2, 1), writer, NewInMemoryProgress(), zerolog.Nop())

	var nestedErr error
	writer.onMovies = func() {
		_, nestedErr = imp.Import(context.Background())
	}
	if _, err := imp.Import(t.Context()); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if !errors.Is(nestedErr, ErrImportRunning) {
		t.Errorf("nested Import() error = %v, want ErrImportRunning", nestedErr)
	}
}

func TestImporter_StopWhenIdle(t *testing.T) {
	t.Parallel()

	imp := NewImporter(importCfg(5), newMemReader(1, 1), newMockWriter(), NewInMemoryProgress(), zerolog.Nop())
	if err := imp.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop() error = %v, want ErrNotRunning", err)
	}
	if got := imp.Summary().Status; got != "idle" {
		t.Errorf("Summary().Status = %q, want idle", got)
	}
}

func TestImporter_WriteErrorsCounted(t *testing.T) {
	t.Parallel()

	writer := newMockWriter()
	writer.movieErr = errors.New("disk full")

	stats, err := NewImporter(importCfg(2), newMemReader(3, 1), writer, NewInMemoryProgress(), zerolog.Nop()).Import(t.Context())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Errors != 3 || stats.ImportedMovies != 0 {
		t.Errorf("stats = %+v, want 3 errors and no movies", stats)
	}
	if stats.ImportedRatings != 3 {
		t.Errorf("ImportedRatings = %d, want 3", stats.ImportedRatings)
	}
}

func TestImporter_ReaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*memReader)
	}{
		{"count", func(r *memReader) { r.countErr = errors.New("locked") }},
		{"read", func(r *memReader) { r.readErr = errors.New("corrupt page") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reader := newMemReader(2, 1)
			tt.mutate(reader)
			imp := NewImporter(importCfg(5), reader, newMockWriter(), NewInMemoryProgress(), zerolog.Nop())
			if _, err := imp.Import(t.Context()); err == nil {
				t.Error("Import() expected error")
			}
			if imp.IsRunning() {
				t.Error("importer still running after error")
			}
		})
	}
}

func TestImporter_Reset(t *testing.T) {
	t.Parallel()

	progress := NewInMemoryProgress()
	imp := NewImporter(importCfg(5), newMemReader(2, 1), newMockWriter(), progress, zerolog.Nop())
	if _, err := imp.Import(t.Context()); err != nil {
		t.Fatal(err)
	}
	if err := imp.Reset(t.Context()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if saved, _ := progress.Load(t.Context()); saved != nil {
		t.Errorf("progress after Reset = %+v", saved)
	}
}
