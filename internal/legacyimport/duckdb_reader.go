// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// DuckDB driver, used with the sqlite_scanner extension
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/cineniche/internal/models"
)

// legacyCatalog is the name the SQLite file is attached under.
const legacyCatalog = "legacy"

// DuckDBReader reads the legacy SQLite database through DuckDB's
// sqlite_scanner extension, without a separate SQLite driver.
type DuckDBReader struct {
	db    *sql.DB
	lists map[models.UserList]bool
}

// NewDuckDBReader attaches the SQLite file at path to an in-memory
// DuckDB instance and checks that the catalog and ratings tables exist.
func NewDuckDBReader(path string) (*DuckDBReader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if err := loadSQLiteExtension(db); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("load sqlite extension: %w", err)
	}

	if err := attachSQLiteDatabase(db, path); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("attach database: %w", err)
	}

	lists, err := verifyTables(db)
	if err != nil {
		detachSQLiteDatabase(db)
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("verify tables: %w", err)
	}

	return &DuckDBReader{db: db, lists: lists}, nil
}

// loadSQLiteExtension installs and loads sqlite_scanner. The extension
// may already be installed, so a failed INSTALL falls back to LOAD and
// then FORCE INSTALL.
func loadSQLiteExtension(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "INSTALL sqlite_scanner;"); err != nil {
		if _, loadErr := db.ExecContext(ctx, "LOAD sqlite_scanner;"); loadErr != nil {
			if _, forceErr := db.ExecContext(ctx, "FORCE INSTALL sqlite_scanner;"); forceErr != nil {
				return fmt.Errorf("install error: %w, load error: %w, force install error: %w", err, loadErr, forceErr)
			}
			_, err = db.ExecContext(ctx, "LOAD sqlite_scanner;")
			return err
		}
		return nil
	}

	_, err := db.ExecContext(ctx, "LOAD sqlite_scanner;")
	return err
}

// attachSQLiteDatabase attaches the file read-only as legacyCatalog.
// ATTACH does not take bound parameters, so the path is quoted inline.
func attachSQLiteDatabase(db *sql.DB, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	query := fmt.Sprintf("ATTACH %s AS %s (TYPE sqlite, READ_ONLY)", quoted, legacyCatalog)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	return nil
}

func detachSQLiteDatabase(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db.ExecContext(ctx, "DETACH DATABASE IF EXISTS "+legacyCatalog) //nolint:errcheck // best-effort detach, errors not actionable
}

// verifyTables checks that the required legacy tables are visible in the
// attached catalog and reports which user list tables are present.
func verifyTables(db *sql.DB) (map[models.UserList]bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, table := range requiredTables {
		ok, err := hasTable(ctx, db, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("table %s not found in attached database", table)
		}
	}

	lists := make(map[models.UserList]bool)
	for _, list := range models.UserLists() {
		ok, err := hasTable(ctx, db, legacyListTable(list))
		if err != nil {
			return nil, err
		}
		lists[list] = ok
	}
	return lists, nil
}

func hasTable(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_catalog = ? AND table_name = ?",
		legacyCatalog, table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return count > 0, nil
}

func qualified(table string) string {
	return legacyCatalog + "." + table
}

// Counts implements Reader.
func (r *DuckDBReader) Counts(ctx context.Context) (SourceCounts, error) {
	var c SourceCounts
	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %[1]s),
			(SELECT COUNT(*) FROM %[1]s WHERE show_id IS NULL OR show_id = ''),
			(SELECT COUNT(*) FROM %[2]s),
			(SELECT COUNT(*) FROM %[2]s WHERE user_id IS NULL OR show_id IS NULL OR show_id = '')`,
		qualified(moviesTable), qualified(ratingsTable))

	err := r.db.QueryRowContext(ctx, query).Scan(&c.Movies, &c.MoviesWithoutID, &c.Ratings, &c.RatingsWithoutKey)
	if err != nil {
		return c, fmt.Errorf("count legacy rows: %w", err)
	}

	for _, list := range models.UserLists() {
		if !r.lists[list] {
			continue
		}
		var total, unkeyed int64
		err := r.db.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT COUNT(*), COUNT(*) FILTER (WHERE %s) FROM %s",
			unkeyedPair(listShowColumn), qualified(legacyListTable(list)))).Scan(&total, &unkeyed)
		if err != nil {
			return c, fmt.Errorf("count %s: %w", list, err)
		}
		if list == models.ListFavorites {
			c.Favorites = total
		} else {
			c.Watchlist = total
		}
		c.ListEntriesWithoutKey += unkeyed
	}
	return c, nil
}

// ReadMovies implements Reader.
func (r *DuckDBReader) ReadMovies(ctx context.Context, afterShowID string, limit int) ([]models.Movie, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY show_id LIMIT ?",
		selectMovieColumns(), qualified(moviesTable), movieKeyset)

	rows, err := r.db.QueryContext(ctx, query, afterShowID, limit)
	if err != nil {
		return nil, fmt.Errorf("read movies after %q: %w", afterShowID, err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read movie columns: %w", err)
	}

	var movies []models.Movie
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for rows.Next() {
		for i := range values {
			values[i] = nil
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		m, err := rowToMovie(row)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ReadRatings implements Reader.
func (r *DuckDBReader) ReadRatings(ctx context.Context, after *RatingKey, limit int) ([]models.Rating, error) {
	where, args := ratingKeyset(after)
	query := fmt.Sprintf("SELECT user_id, show_id, rating FROM %s WHERE %s ORDER BY user_id, show_id LIMIT ?",
		qualified(ratingsTable), where)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var ratings []models.Rating
	for rows.Next() {
		var (
			userID int64
			showID string
			value  sql.NullFloat64
		)
		if err := rows.Scan(&userID, &showID, &value); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		rt := models.Rating{UserID: int(userID), ShowID: showID}
		if value.Valid {
			v := value.Float64
			rt.Value = &v
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// ReadListEntries implements Reader.
func (r *DuckDBReader) ReadListEntries(ctx context.Context, list models.UserList, after *RatingKey, limit int) ([]models.ListEntry, error) {
	if !r.lists[list] {
		return nil, nil
	}
	where, args := pairKeyset(listShowColumn, after)
	query := fmt.Sprintf("SELECT user_id, movie_id FROM %s WHERE %s ORDER BY user_id, movie_id LIMIT ?",
		qualified(legacyListTable(list)), where)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", list, err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var entries []models.ListEntry
	for rows.Next() {
		var (
			userID int64
			showID string
		)
		if err := rows.Scan(&userID, &showID); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", list, err)
		}
		entries = append(entries, models.ListEntry{UserID: int(userID), ShowID: showID})
	}
	return entries, rows.Err()
}

// Close detaches the legacy database and closes DuckDB.
func (r *DuckDBReader) Close() error {
	detachSQLiteDatabase(r.db)
	return r.db.Close()
}
