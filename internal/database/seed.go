// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/cineniche/internal/logging"
	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/models"
)

// SeedResult reports how many rows SeedFromCSV loaded per table.
type SeedResult struct {
	Movies         int64 `json:"movies"`
	Ratings        int64 `json:"ratings"`
	MoviesSkipped  bool  `json:"movies_skipped"`
	RatingsSkipped bool  `json:"ratings_skipped"`
}

// SeedFromCSV bulk-loads the catalog and rating CSV exports with DuckDB's
// read_csv. A table is only seeded when its path is non-empty and the
// table has no rows, so restarting against a populated database is a
// no-op. Rows repeating a key already seen in the same file are collapsed
// to one; which copy survives is unspecified.
//
// The movies file must carry a header with show_id plus the descriptive
// and genre columns; missing genre columns are an error. The ratings file
// needs user_id, show_id and rating.
func (db *DB) SeedFromCSV(ctx context.Context, moviesCSV, ratingsCSV string) (*SeedResult, error) {
	result := &SeedResult{}

	if moviesCSV != "" {
		n, skipped, err := db.seedTable(ctx, tableMovies, moviesCSV, seedMoviesQuery)
		if err != nil {
			return nil, err
		}
		result.Movies, result.MoviesSkipped = n, skipped
	} else {
		result.MoviesSkipped = true
	}

	if ratingsCSV != "" {
		n, skipped, err := db.seedTable(ctx, tableRatings, ratingsCSV, seedRatingsQuery)
		if err != nil {
			return nil, err
		}
		result.Ratings, result.RatingsSkipped = n, skipped
	} else {
		result.RatingsSkipped = true
	}

	logging.Info().
		Int64("movies", result.Movies).
		Int64("ratings", result.Ratings).
		Bool("movies_skipped", result.MoviesSkipped).
		Bool("ratings_skipped", result.RatingsSkipped).
		Msg("Seed data load complete")

	return result, nil
}

func (db *DB) seedTable(ctx context.Context, table, path string, build func(string) string) (int64, bool, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, false, fmt.Errorf("seed file for %s: %w", table, err)
	}

	existing, err := db.count(ctx, table)
	if err != nil {
		return 0, false, err
	}
	if existing > 0 {
		logging.Debug().Str("table", table).Int64("rows", existing).Msg("Table already populated, skipping seed")
		return 0, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	start := time.Now()

	res, err := db.conn.ExecContext(ctx, build(path))
	metrics.RecordDBQuery("seed", table, time.Since(start), err)
	if err != nil {
		return 0, false, fmt.Errorf("failed to seed %s from %s: %w", table, path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	return n, false, nil
}

// sqlString quotes s as a SQL string literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// flagExpr reads a CSV genre column that may hold 0/1 or true/false.
func flagExpr(col string) string {
	q := quoteIdent(col)
	return fmt.Sprintf("COALESCE(TRY_CAST(%s AS INTEGER) <> 0, TRY_CAST(%s AS BOOLEAN), false)", q, q)
}

func seedMoviesQuery(path string) string {
	exprs := []string{
		"show_id",
		"NULLIF(type, '')",
		"NULLIF(title, '')",
		"NULLIF(director, '')",
		`NULLIF("cast", '')`,
		"NULLIF(country, '')",
		"TRY_CAST(release_year AS INTEGER)",
		"NULLIF(rating, '')",
		"NULLIF(duration, '')",
		"NULLIF(description, '')",
	}
	for _, c := range models.AllCategories() {
		exprs = append(exprs, flagExpr(c.String()))
	}

	return "INSERT INTO movies_titles (" + movieColumnList() + ") " +
		"SELECT " + strings.Join(exprs, ", ") +
		" FROM read_csv(" + sqlString(path) + ", header = true, all_varchar = true)" +
		" WHERE show_id IS NOT NULL AND show_id <> ''" +
		" QUALIFY row_number() OVER (PARTITION BY show_id) = 1"
}

func seedRatingsQuery(path string) string {
	return "INSERT INTO movies_ratings (user_id, show_id, rating) " +
		"SELECT TRY_CAST(user_id AS INTEGER), show_id, TRY_CAST(rating AS DOUBLE)" +
		" FROM read_csv(" + sqlString(path) + ", header = true, all_varchar = true)" +
		" WHERE TRY_CAST(user_id AS INTEGER) IS NOT NULL AND show_id IS NOT NULL AND show_id <> ''" +
		" QUALIFY row_number() OVER (PARTITION BY TRY_CAST(user_id AS INTEGER), show_id) = 1"
}
