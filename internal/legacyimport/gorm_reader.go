// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/tomtom215/cineniche/internal/models"
)

// legacyRating maps a movies_ratings row. Every column is nullable in
// the legacy schema.
type legacyRating struct {
	UserID *int64   `gorm:"column:user_id"`
	ShowID *string  `gorm:"column:show_id"`
	Rating *float64 `gorm:"column:rating"`
}

// TableName binds legacyRating to movies_ratings.
func (legacyRating) TableName() string { return ratingsTable }

// legacyListEntry maps a user_favorites or user_watchlist row.
type legacyListEntry struct {
	UserID  *int64  `gorm:"column:user_id"`
	MovieID *string `gorm:"column:movie_id"`
}

// GormReader reads the legacy SQLite database through GORM.
type GormReader struct {
	db    *gorm.DB
	lists map[models.UserList]bool
}

// NewGormReader opens the SQLite file at path read-only and checks that
// the catalog and ratings tables exist. Query warnings and slow statements are
// written to logger.
func NewGormReader(path string, logger zerolog.Logger) (*GormReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("legacy database: %w", err)
	}

	gormLog := gormLogger.New(
		&logger,
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open("file:"+path+"?mode=ro"), &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}

	r := &GormReader{db: db, lists: map[models.UserList]bool{}}
	for _, table := range requiredTables {
		if !db.Migrator().HasTable(table) {
			_ = r.Close()
			return nil, fmt.Errorf("legacy database missing table %s", table)
		}
	}
	for _, list := range models.UserLists() {
		r.lists[list] = db.Migrator().HasTable(legacyListTable(list))
	}
	return r, nil
}

// Counts implements Reader.
func (r *GormReader) Counts(ctx context.Context) (SourceCounts, error) {
	var c SourceCounts
	db := r.db.WithContext(ctx)

	if err := db.Table(moviesTable).Count(&c.Movies).Error; err != nil {
		return c, fmt.Errorf("count movies: %w", err)
	}
	if err := db.Table(moviesTable).Where("show_id IS NULL OR show_id = ''").Count(&c.MoviesWithoutID).Error; err != nil {
		return c, fmt.Errorf("count movies without id: %w", err)
	}
	if err := db.Table(ratingsTable).Count(&c.Ratings).Error; err != nil {
		return c, fmt.Errorf("count ratings: %w", err)
	}
	if err := db.Table(ratingsTable).
		Where("user_id IS NULL OR show_id IS NULL OR show_id = ''").
		Count(&c.RatingsWithoutKey).Error; err != nil {
		return c, fmt.Errorf("count ratings without key: %w", err)
	}

	for _, list := range models.UserLists() {
		if !r.lists[list] {
			continue
		}
		table := legacyListTable(list)
		var total, unkeyed int64
		if err := db.Table(table).Count(&total).Error; err != nil {
			return c, fmt.Errorf("count %s: %w", table, err)
		}
		if err := db.Table(table).Where(unkeyedPair(listShowColumn)).Count(&unkeyed).Error; err != nil {
			return c, fmt.Errorf("count %s without key: %w", table, err)
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
func (r *GormReader) ReadMovies(ctx context.Context, afterShowID string, limit int) ([]models.Movie, error) {
	var rows []map[string]interface{}
	err := r.db.WithContext(ctx).
		Table(moviesTable).
		Select(selectMovieColumns()).
		Where(movieKeyset, afterShowID).
		Order("show_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read movies after %q: %w", afterShowID, err)
	}

	movies := make([]models.Movie, 0, len(rows))
	for _, row := range rows {
		m, err := rowToMovie(row)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// ReadRatings implements Reader.
func (r *GormReader) ReadRatings(ctx context.Context, after *RatingKey, limit int) ([]models.Rating, error) {
	where, args := ratingKeyset(after)

	var rows []legacyRating
	err := r.db.WithContext(ctx).
		Where(where, args...).
		Order("user_id, show_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}

	ratings := make([]models.Rating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, models.Rating{
			UserID: int(*row.UserID),
			ShowID: *row.ShowID,
			Value:  row.Rating,
		})
	}
	return ratings, nil
}

// ReadListEntries implements Reader.
func (r *GormReader) ReadListEntries(ctx context.Context, list models.UserList, after *RatingKey, limit int) ([]models.ListEntry, error) {
	if !r.lists[list] {
		return nil, nil
	}
	where, args := pairKeyset(listShowColumn, after)

	var rows []legacyListEntry
	err := r.db.WithContext(ctx).
		Table(legacyListTable(list)).
		Select("user_id, movie_id").
		Where(where, args...).
		Order("user_id, movie_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", list, err)
	}

	entries := make([]models.ListEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.ListEntry{UserID: int(*row.UserID), ShowID: *row.MovieID})
	}
	return entries, nil
}

// Close implements Reader.
func (r *GormReader) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
