// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/tomtom215/cineniche/internal/models"
)

// createLegacyDB writes a small legacy database: three keyed movies, one
// movie without show_id, four keyed ratings and one rating without user,
// three keyed favorites with one unkeyed, and one watchlist entry.
func createLegacyDB(t *testing.T) string {
	t.Helper()
	return writeLegacyDB(t, true)
}

// writeLegacyDB builds the fixture; withLists false leaves out the
// favorites and watchlist tables, as in databases predating them.
func writeLegacyDB(t *testing.T, withLists bool) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Movies.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}

	flagCols := make([]string, 0)
	for _, c := range models.AllCategories() {
		flagCols = append(flagCols, `"`+c.String()+`" INTEGER`)
	}

	stmts := []string{
		`CREATE TABLE movies_titles (
			show_id TEXT, type TEXT, title TEXT, director TEXT, "cast" TEXT,
			country TEXT, release_year INTEGER, rating TEXT, duration TEXT,
			description TEXT, ` + strings.Join(flagCols, ", ") + `)`,
		`CREATE TABLE movies_ratings (user_id INTEGER, show_id TEXT, rating REAL)`,
		`INSERT INTO movies_titles (show_id, type, title, release_year, duration, "Action", "Comedies")
			VALUES ('s2', 'Movie', 'Second', 2019, '95 min', 1, 0)`,
		`INSERT INTO movies_titles (show_id, type, title, release_year, duration, "Action", "Comedies")
			VALUES ('s1', 'Movie', 'First', 2020, '1h 30min', 1, 1)`,
		`INSERT INTO movies_titles (show_id, type, title, "cast", "Dramas")
			VALUES ('s3', 'TV Show', 'Third', 'A, B', 1)`,
		`INSERT INTO movies_titles (show_id, title) VALUES (NULL, 'Orphan')`,
		`INSERT INTO movies_ratings VALUES (2, 's1', 4)`,
		`INSERT INTO movies_ratings VALUES (1, 's2', 5)`,
		`INSERT INTO movies_ratings VALUES (1, 's1', 3)`,
		`INSERT INTO movies_ratings VALUES (2, 's3', NULL)`,
		`INSERT INTO movies_ratings VALUES (NULL, 's1', 2)`,
	}
	if withLists {
		stmts = append(stmts,
			`CREATE TABLE user_favorites (id INTEGER PRIMARY KEY, user_id INTEGER, movie_id TEXT)`,
			`CREATE TABLE user_watchlist (id INTEGER PRIMARY KEY, user_id INTEGER, movie_id TEXT)`,
			`INSERT INTO user_favorites (user_id, movie_id) VALUES (2, 's1')`,
			`INSERT INTO user_favorites (user_id, movie_id) VALUES (1, 's3')`,
			`INSERT INTO user_favorites (user_id, movie_id) VALUES (1, 's1')`,
			`INSERT INTO user_favorites (user_id, movie_id) VALUES (NULL, 's2')`,
			`INSERT INTO user_watchlist (user_id, movie_id) VALUES (1, 's2')`,
		)
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("fixture %q: %v", stmt, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// checkLegacyReader runs the shared expectations against any Reader
// opened on createLegacyDB's fixture.
func checkLegacyReader(t *testing.T, r Reader) {
	t.Helper()
	ctx := t.Context()

	counts, err := r.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	want := SourceCounts{
		Movies: 4, Ratings: 5, Favorites: 4, Watchlist: 1,
		MoviesWithoutID: 1, RatingsWithoutKey: 1, ListEntriesWithoutKey: 1,
	}
	if counts != want {
		t.Errorf("Counts() = %+v, want %+v", counts, want)
	}

	page, err := r.ReadMovies(ctx, "", 2)
	if err != nil {
		t.Fatalf("ReadMovies() error = %v", err)
	}
	if len(page) != 2 || page[0].ShowID != "s1" || page[1].ShowID != "s2" {
		t.Fatalf("first movie page = %+v, want s1, s2", page)
	}
	first := page[0]
	if first.Title != "First" || first.ReleaseYear != 2020 || first.Duration != "1h 30min" {
		t.Errorf("s1 = %+v", first)
	}
	if want := models.NewCategorySet(models.CategoryAction, models.CategoryComedies); first.Categories != want {
		t.Errorf("s1 categories = %v, want %v", first.Categories.Names(), want.Names())
	}

	page, err = r.ReadMovies(ctx, "s2", 2)
	if err != nil {
		t.Fatalf("ReadMovies(s2) error = %v", err)
	}
	if len(page) != 1 || page[0].ShowID != "s3" || page[0].Cast != "A, B" {
		t.Fatalf("second movie page = %+v, want s3", page)
	}
	if !page[0].Categories.Has(models.CategoryDramas) {
		t.Errorf("s3 categories = %v, want Dramas", page[0].Categories.Names())
	}

	ratings, err := r.ReadRatings(ctx, nil, 3)
	if err != nil {
		t.Fatalf("ReadRatings() error = %v", err)
	}
	wantKeys := []RatingKey{{1, "s1"}, {1, "s2"}, {2, "s1"}}
	if len(ratings) != len(wantKeys) {
		t.Fatalf("ReadRatings() returned %d rows, want %d", len(ratings), len(wantKeys))
	}
	for i, k := range wantKeys {
		if ratings[i].UserID != k.UserID || ratings[i].ShowID != k.ShowID {
			t.Errorf("rating[%d] = %d/%s, want %d/%s", i, ratings[i].UserID, ratings[i].ShowID, k.UserID, k.ShowID)
		}
	}
	if ratings[0].Value == nil || *ratings[0].Value != 3 {
		t.Errorf("rating 1/s1 value = %v, want 3", ratings[0].Value)
	}

	ratings, err = r.ReadRatings(ctx, &RatingKey{UserID: 2, ShowID: "s1"}, 3)
	if err != nil {
		t.Fatalf("ReadRatings(after) error = %v", err)
	}
	if len(ratings) != 1 || ratings[0].ShowID != "s3" || ratings[0].Value != nil {
		t.Errorf("last rating page = %+v, want 2/s3 without value", ratings)
	}

	favs, err := r.ReadListEntries(ctx, models.ListFavorites, nil, 2)
	if err != nil {
		t.Fatalf("ReadListEntries(favorites) error = %v", err)
	}
	if len(favs) != 2 || favs[0].ShowID != "s1" || favs[1].ShowID != "s3" || favs[0].UserID != 1 {
		t.Errorf("first favorites page = %+v, want 1/s1, 1/s3", favs)
	}
	favs, err = r.ReadListEntries(ctx, models.ListFavorites, &RatingKey{UserID: 1, ShowID: "s3"}, 2)
	if err != nil {
		t.Fatalf("ReadListEntries(favorites, after) error = %v", err)
	}
	if len(favs) != 1 || favs[0].UserID != 2 || favs[0].ShowID != "s1" {
		t.Errorf("last favorites page = %+v, want 2/s1", favs)
	}

	watch, err := r.ReadListEntries(ctx, models.ListWatchlist, nil, 10)
	if err != nil {
		t.Fatalf("ReadListEntries(watchlist) error = %v", err)
	}
	if len(watch) != 1 || watch[0].ShowID != "s2" {
		t.Errorf("watchlist = %+v, want 1/s2", watch)
	}
}

// checkReaderWithoutLists expects empty counts and pages for the list
// tables of a database created by writeLegacyDB(t, false).
func checkReaderWithoutLists(t *testing.T, r Reader) {
	t.Helper()
	ctx := t.Context()

	counts, err := r.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if counts.Favorites != 0 || counts.Watchlist != 0 || counts.Movies != 4 {
		t.Errorf("Counts() = %+v, want movies only and no list rows", counts)
	}
	for _, list := range models.UserLists() {
		entries, err := r.ReadListEntries(ctx, list, nil, 10)
		if err != nil || len(entries) != 0 {
			t.Errorf("ReadListEntries(%s) = %+v, %v; want empty", list, entries, err)
		}
	}
}
