// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMovie reads one movies_titles row selected with movieColumnList.
func scanMovie(s rowScanner) (*models.Movie, error) {
	var (
		showID                              string
		typ, title, director, cast, country sql.NullString
		rating, duration, description       sql.NullString
		releaseYear                         sql.NullInt64
	)

	cats := models.AllCategories()
	flags := make([]bool, len(cats))

	dest := make([]any, 0, len(descriptiveColumns)+len(cats))
	dest = append(dest, &showID, &typ, &title, &director, &cast, &country,
		&releaseYear, &rating, &duration, &description)
	for i := range flags {
		dest = append(dest, &flags[i])
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	m := &models.Movie{
		ShowID:      showID,
		Type:        typ.String,
		Title:       title.String,
		Director:    director.String,
		Cast:        cast.String,
		Country:     country.String,
		ReleaseYear: int(releaseYear.Int64),
		Rating:      rating.String,
		Duration:    duration.String,
		Description: description.String,
	}
	for i, set := range flags {
		if set {
			m.Categories = m.Categories.Add(cats[i])
		}
	}
	return m, nil
}

// movieArgs returns the insert arguments for m in movieColumnList order.
func movieArgs(m *models.Movie) []any {
	args := []any{
		m.ShowID,
		nullString(m.Type),
		nullString(m.Title),
		nullString(m.Director),
		nullString(m.Cast),
		nullString(m.Country),
		nullInt(m.ReleaseYear),
		nullString(m.Rating),
		nullString(m.Duration),
		nullString(m.Description),
	}
	for _, c := range models.AllCategories() {
		args = append(args, m.Categories.Has(c))
	}
	return args
}

// nullString maps "" to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullInt maps 0 to SQL NULL.
func nullInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

// nullFloat maps a nil pointer to SQL NULL.
func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// GetMovieByID returns the movie with the given show id, or nil when absent.
func (db *DB) GetMovieByID(ctx context.Context, showID string) (*models.Movie, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query := "SELECT " + movieColumnList() + " FROM movies_titles WHERE show_id = ?"
	m, err := scanMovie(db.conn.QueryRowContext(ctx, query, showID))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("select", tableMovies, time.Since(start), nil)
		return nil, nil
	}
	metrics.RecordDBQuery("select", tableMovies, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %s: %w", showID, err)
	}
	return m, nil
}

// GetAllMovies returns every movie except excludingID, ordered by show id.
// An empty excludingID returns the whole catalog.
func (db *DB) GetAllMovies(ctx context.Context, excludingID string) ([]models.Movie, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query := "SELECT " + movieColumnList() + " FROM movies_titles WHERE show_id <> ? ORDER BY show_id"
	movies, err := db.queryMovies(ctx, query, excludingID)
	metrics.RecordDBQuery("select_all", tableMovies, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// GetMoviesByIDs returns the movies for ids in the order the ids are given.
// Unknown ids are skipped and duplicates are returned once per occurrence.
func (db *DB) GetMoviesByIDs(ctx context.Context, ids []string) ([]models.Movie, error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := "SELECT " + movieColumnList() + " FROM movies_titles WHERE show_id IN (" +
		strings.Join(placeholders, ", ") + ")"
	found, err := db.queryMovies(ctx, query, args...)
	metrics.RecordDBQuery("select_ids", tableMovies, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies by id: %w", err)
	}

	byID := make(map[string]models.Movie, len(found))
	for _, m := range found {
		byID[m.ShowID] = m
	}
	out := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (db *DB) queryMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")

	movies := make([]models.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// UpsertMovies inserts or replaces movies in a single transaction and
// returns the number written. Movies with an empty show id are rejected.
func (db *DB) UpsertMovies(ctx context.Context, movies []models.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}
	for i := range movies {
		if movies[i].ShowID == "" {
			return 0, fmt.Errorf("movie at index %d has empty show_id", i)
		}
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	n, err := db.upsertMovies(ctx, movies)
	metrics.RecordDBQuery("upsert", tableMovies, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert movies: %w", err)
	}
	return n, nil
}

func (db *DB) upsertMovies(ctx context.Context, movies []models.Movie) (int, error) {
	cols := movieColumnList()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(descriptiveColumns)+len(models.AllCategories())), ", ")

	var updates []string
	for _, c := range strings.Split(cols, ", ")[1:] {
		updates = append(updates, c+" = EXCLUDED."+c)
	}

	query := "INSERT INTO movies_titles (" + cols + ") VALUES (" + placeholders + ") " +
		"ON CONFLICT (show_id) DO UPDATE SET " + strings.Join(updates, ", ")

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range movies {
		if _, err := stmt.ExecContext(ctx, movieArgs(&movies[i])...); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", movies[i].ShowID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(movies), nil
}

// CreateMovie inserts a new title. It returns a *DuplicateTitleError when
// another title has the same name ignoring case, and ErrConflict when the
// show id is taken.
func (db *DB) CreateMovie(ctx context.Context, m *models.Movie) error {
	if m.ShowID == "" {
		return errors.New("movie has empty show_id")
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.createMovie(ctx, m)
	metrics.RecordDBQuery("insert", tableMovies, time.Since(start), ignoreConflict(err))
	return err
}

func (db *DB) createMovie(ctx context.Context, m *models.Movie) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	var taken int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies_titles WHERE show_id = ?", m.ShowID).Scan(&taken); err != nil {
		return fmt.Errorf("check show id %s: %w", m.ShowID, err)
	}
	if taken > 0 {
		return fmt.Errorf("show id %s: %w", m.ShowID, ErrConflict)
	}

	if m.Title != "" {
		var existing string
		err := tx.QueryRowContext(ctx,
			"SELECT show_id FROM movies_titles WHERE lower(title) = lower(?) ORDER BY show_id LIMIT 1",
			m.Title).Scan(&existing)
		switch {
		case err == nil:
			return &DuplicateTitleError{Title: m.Title, ExistingID: existing}
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("check title %q: %w", m.Title, err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(descriptiveColumns)+len(models.AllCategories())), ", ")
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO movies_titles ("+movieColumnList()+") VALUES ("+placeholders+")",
		movieArgs(m)...); err != nil {
		return fmt.Errorf("failed to insert movie %s: %w", m.ShowID, err)
	}
	return tx.Commit()
}

// UpdateMovie replaces every column of an existing title, genre flags
// included. Returns ErrNotFound when the movie does not exist.
func (db *DB) UpdateMovie(ctx context.Context, m *models.Movie) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	cols := strings.Split(movieColumnList(), ", ")[1:]
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	args := append(movieArgs(m)[1:], m.ShowID)

	res, err := db.conn.ExecContext(ctx,
		"UPDATE movies_titles SET "+strings.Join(sets, ", ")+" WHERE show_id = ?", args...)
	metrics.RecordDBQuery("update", tableMovies, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update movie %s: %w", m.ShowID, err)
	}
	return requireAffected(res, m.ShowID)
}

// UpdateMovieCategories replaces the genre flags of one movie.
// Returns ErrNotFound when the movie does not exist.
func (db *DB) UpdateMovieCategories(ctx context.Context, showID string, cats models.CategorySet) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	all := models.AllCategories()
	sets := make([]string, len(all))
	args := make([]any, 0, len(all)+1)
	for i, c := range all {
		sets[i] = quoteIdent(c.String()) + " = ?"
		args = append(args, cats.Has(c))
	}
	args = append(args, showID)

	query := "UPDATE movies_titles SET " + strings.Join(sets, ", ") + " WHERE show_id = ?"
	res, err := db.conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery("update_categories", tableMovies, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update categories for %s: %w", showID, err)
	}
	return requireAffected(res, showID)
}

// DeleteMovie removes a movie with its ratings, favorites and
// watchlist entries.
// Returns ErrNotFound when the movie does not exist.
func (db *DB) DeleteMovie(ctx context.Context, showID string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.deleteMovie(ctx, showID)
	metrics.RecordDBQuery("delete", tableMovies, time.Since(start), ignoreNotFound(err))
	return err
}

func (db *DB) deleteMovie(ctx context.Context, showID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	for _, table := range []string{tableRatings, tableFavorites, tableWatchlist} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE show_id = ?", showID); err != nil {
			return fmt.Errorf("failed to delete %s rows for %s: %w", table, showID, err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM movies_titles WHERE show_id = ?", showID)
	if err != nil {
		return fmt.Errorf("failed to delete movie %s: %w", showID, err)
	}
	if err := requireAffected(res, showID); err != nil {
		return err
	}
	return tx.Commit()
}

// CountMovies returns the number of catalog titles.
func (db *DB) CountMovies(ctx context.Context) (int64, error) {
	return db.count(ctx, tableMovies)
}

func (db *DB) count(ctx context.Context, table string) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	var n int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	metrics.RecordDBQuery("count", table, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func requireAffected(res sql.Result, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// ignoreConflict keeps expected conflicts out of the error metric.
func ignoreConflict(err error) error {
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}
