// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/models"
)

const ratingColumns = "user_id, show_id, rating, review"

func scanRatings(rows *sql.Rows) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var (
			r      models.Rating
			value  sql.NullFloat64
			review sql.NullString
		)
		if err := rows.Scan(&r.UserID, &r.ShowID, &value, &review); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		if value.Valid {
			v := value.Float64
			r.Value = &v
		}
		r.Review = review.String
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// GetRatingsForUser returns every rating the user has made, ordered by show id.
func (db *DB) GetRatingsForUser(ctx context.Context, userID int) ([]models.Rating, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	ratings, err := db.queryRatings(ctx,
		"SELECT "+ratingColumns+" FROM movies_ratings WHERE user_id = ? ORDER BY show_id", userID)
	metrics.RecordDBQuery("select_user", tableRatings, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for user %d: %w", userID, err)
	}
	return ratings, nil
}

// GetRatingsForMovie returns every rating of the movie, ordered by user id.
func (db *DB) GetRatingsForMovie(ctx context.Context, showID string) ([]models.Rating, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	ratings, err := db.queryRatings(ctx,
		"SELECT "+ratingColumns+" FROM movies_ratings WHERE show_id = ? ORDER BY user_id", showID)
	metrics.RecordDBQuery("select_movie", tableRatings, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for movie %s: %w", showID, err)
	}
	return ratings, nil
}

func (db *DB) queryRatings(ctx context.Context, query string, args ...any) ([]models.Rating, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")
	return scanRatings(rows)
}

// UpsertRating stores r, replacing any earlier rating by the same user for
// the same movie. created reports whether a new row was inserted.
// Returns ErrNotFound when the movie is not in the catalog.
func (db *DB) UpsertRating(ctx context.Context, r *models.Rating) (created bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	created, err = db.upsertRating(ctx, r)
	metrics.RecordDBQuery("upsert", tableRatings, time.Since(start), ignoreNotFound(err))
	return created, err
}

func (db *DB) upsertRating(ctx context.Context, r *models.Rating) (bool, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if err := requireMovie(ctx, tx, r.ShowID); err != nil {
		return false, err
	}

	var existing int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies_ratings WHERE user_id = ? AND show_id = ?",
		r.UserID, r.ShowID).Scan(&existing); err != nil {
		return false, fmt.Errorf("check rating: %w", err)
	}

	// ON CONFLICT covers a row written outside writeMu (a bulk import)
	// between the check and the insert.
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO movies_ratings ("+ratingColumns+") VALUES (?, ?, ?, ?) "+
			"ON CONFLICT (user_id, show_id) DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review",
		r.UserID, r.ShowID, nullFloat(r.Value), nullString(r.Review)); err != nil {
		return false, fmt.Errorf("write rating for user %d movie %s: %w", r.UserID, r.ShowID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return existing == 0, nil
}

// requireMovie returns ErrNotFound when showID is not in the catalog.
func requireMovie(ctx context.Context, tx *sql.Tx, showID string) error {
	var movies int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies_titles WHERE show_id = ?", showID).Scan(&movies); err != nil {
		return fmt.Errorf("check movie %s: %w", showID, err)
	}
	if movies == 0 {
		return fmt.Errorf("movie %s: %w", showID, ErrNotFound)
	}
	return nil
}

// UpsertRatings writes a batch of ratings without the catalog check, for
// bulk loads where movies are imported first. Returns the number written.
func (db *DB) UpsertRatings(ctx context.Context, ratings []models.Rating) (int, error) {
	if len(ratings) == 0 {
		return 0, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	n, err := db.upsertRatings(ctx, ratings)
	metrics.RecordDBQuery("upsert_batch", tableRatings, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert ratings: %w", err)
	}
	return n, nil
}

func (db *DB) upsertRatings(ctx context.Context, ratings []models.Rating) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO movies_ratings ("+ratingColumns+") VALUES (?, ?, ?, ?) "+
			"ON CONFLICT (user_id, show_id) DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review")
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range ratings {
		r := &ratings[i]
		if _, err := stmt.ExecContext(ctx, r.UserID, r.ShowID, nullFloat(r.Value), nullString(r.Review)); err != nil {
			return 0, fmt.Errorf("upsert rating user %d movie %s: %w", r.UserID, r.ShowID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(ratings), nil
}

// DeleteRating removes one rating. Returns ErrNotFound when absent.
func (db *DB) DeleteRating(ctx context.Context, userID int, showID string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM movies_ratings WHERE user_id = ? AND show_id = ?", userID, showID)
	metrics.RecordDBQuery("delete", tableRatings, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("rating %d/%s", userID, showID))
}

// AverageRating returns the mean of the non-null ratings of a movie,
// or 0 when it has none.
func (db *DB) AverageRating(ctx context.Context, showID string) (float64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	var avg float64
	err := db.conn.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(rating), 0)::DOUBLE FROM movies_ratings WHERE show_id = ? AND rating IS NOT NULL",
		showID).Scan(&avg)
	metrics.RecordDBQuery("average", tableRatings, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to average ratings for %s: %w", showID, err)
	}
	return avg, nil
}

// CountRatings returns the number of stored ratings.
func (db *DB) CountRatings(ctx context.Context) (int64, error) {
	return db.count(ctx, tableRatings)
}
