// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"context"

	"github.com/tomtom215/cineniche/internal/legacyimport"
	"github.com/tomtom215/cineniche/internal/models"
	"github.com/tomtom215/cineniche/internal/recommend"
)

// CatalogStore is the subset of *database.DB the handlers use.
type CatalogStore interface {
	GetMovieByID(ctx context.Context, showID string) (*models.Movie, error)
	GetMoviesByIDs(ctx context.Context, ids []string) ([]models.Movie, error)
	CreateMovie(ctx context.Context, m *models.Movie) error
	UpdateMovie(ctx context.Context, m *models.Movie) error
	UpdateMovieCategories(ctx context.Context, showID string, cats models.CategorySet) error
	DeleteMovie(ctx context.Context, showID string) error

	GetRatingsForUser(ctx context.Context, userID int) ([]models.Rating, error)
	GetRatingsForMovie(ctx context.Context, showID string) ([]models.Rating, error)
	UpsertRating(ctx context.Context, r *models.Rating) (created bool, err error)
	DeleteRating(ctx context.Context, userID int, showID string) error
	AverageRating(ctx context.Context, showID string) (float64, error)

	GetUserList(ctx context.Context, list models.UserList, userID int) ([]models.ListEntry, error)
	AddToUserList(ctx context.Context, list models.UserList, userID int, showID string) (models.ListEntry, bool, error)
	RemoveFromUserList(ctx context.Context, list models.UserList, userID int, showID string) error

	Ping(ctx context.Context) error
}

// Recommender is implemented by *recommend.Engine.
type Recommender interface {
	ContentBased(ctx context.Context, movieID string, count int) ([]models.Movie, error)
	Hybrid(ctx context.Context, movieID string, userID *int, count int) ([]models.Movie, error)
	CollaborativeMovieIDs(userID, topN int) ([]string, error)
	Stats() recommend.Stats
}

// ImportController drives the legacy import. Start queues a run on the
// supervised import service and returns legacyimport.ErrImportRunning
// when one is already running or queued.
type ImportController interface {
	Start() error
	Stop() error
	Reset(ctx context.Context) error
	IsRunning() bool
	Summary() *legacyimport.ProgressSummary
}
