// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cineniche/internal/models"
)

// Note: apart from the shared models, this package depends on no other
// internal package. Storage is reached through MovieStore and RatingStore.

// ErrInvalidCount is returned when a negative result size is requested.
var ErrInvalidCount = errors.New("count must be non-negative")

// MovieStore is the catalog the engine reads from.
type MovieStore interface {
	// GetMovieByID returns the movie, or nil with a nil error when absent.
	GetMovieByID(ctx context.Context, showID string) (*models.Movie, error)

	// GetAllMovies returns every movie except excludingID.
	GetAllMovies(ctx context.Context, excludingID string) ([]models.Movie, error)
}

// RatingStore supplies users' rating history.
type RatingStore interface {
	// GetRatingsForUser returns all ratings made by the user.
	GetRatingsForUser(ctx context.Context, userID int) ([]models.Rating, error)
}

// Stats are cumulative engine counters since construction.
type Stats struct {
	ContentRequests       int64 `json:"content_requests"`
	HybridRequests        int64 `json:"hybrid_requests"`
	CollaborativeRequests int64 `json:"collaborative_requests"`
	Errors                int64 `json:"errors"`
	CollaborativeRows     int   `json:"collaborative_rows"`
	CollaborativeUsers    int   `json:"collaborative_users"`
}

// Engine produces movie recommendations from catalog genre flags, users'
// rating history, and a precomputed collaborative-filtering table.
//
// The engine holds no mutable state besides counters: stores are queried
// on every call and the collaborative table is immutable. It is safe for
// concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	movies  MovieStore
	ratings RatingStore
	collab  *CollaborativeTable

	contentRequests atomic.Int64
	hybridRequests  atomic.Int64
	collabRequests  atomic.Int64
	errorCount      atomic.Int64
}

// NewEngine creates a recommendation engine. The collaborative table must
// already be loaded; see LoadCollaborativeTable.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, movies MovieStore, ratings RatingStore, collab *CollaborativeTable, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if movies == nil {
		return nil, errors.New("movie store is required")
	}
	if ratings == nil {
		return nil, errors.New("rating store is required")
	}
	if collab == nil {
		return nil, errors.New("collaborative table is required")
	}

	return &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		movies:  movies,
		ratings: ratings,
		collab:  collab,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// ContentBased returns up to count movies ranked by Jaccard similarity of
// their categories to movieID's. The target itself is never included.
// An unknown movieID yields an empty list, not an error.
func (e *Engine) ContentBased(ctx context.Context, movieID string, count int) ([]models.Movie, error) {
	e.contentRequests.Add(1)

	movies, err := e.contentBased(ctx, movieID, count)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	return movies, nil
}

func (e *Engine) contentBased(ctx context.Context, movieID string, count int) ([]models.Movie, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	start := time.Now()

	target, err := e.movies.GetMovieByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get target movie: %w", err)
	}
	if target == nil {
		e.logger.Debug().Str("show_id", movieID).Msg("target movie not found")
		return []models.Movie{}, nil
	}
	if count == 0 {
		return []models.Movie{}, nil
	}

	candidates, err := e.movies.GetAllMovies(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get candidate movies: %w", err)
	}

	ranked := rankBySimilarity(target.Categories, candidates)

	result := make([]models.Movie, 0, min(count, len(ranked)))
	for _, s := range ranked {
		if len(result) == count {
			break
		}
		// Stores are expected to exclude the target, but a duplicate
		// row must still never be recommended for itself.
		if s.movie.ShowID == movieID {
			continue
		}
		result = append(result, s.movie)
	}

	e.logger.Debug().
		Str("show_id", movieID).
		Int("candidates", len(candidates)).
		Int("returned", len(result)).
		Dur("duration", time.Since(start)).
		Msg("content-based recommendations complete")

	return result, nil
}

// Hybrid returns up to count movies similar to movieID, re-ranked so that
// titles the user has already rated come first.
//
// The pool is the content-based list for OverfetchFactor*count. With a
// user id the pool is stable-partitioned into rated then unrated titles,
// each keeping its similarity order. Without one, the result is exactly
// ContentBased(movieID, count). This is a fixed heuristic, not a learned
// model.
func (e *Engine) Hybrid(ctx context.Context, movieID string, userID *int, count int) ([]models.Movie, error) {
	e.hybridRequests.Add(1)

	movies, err := e.hybrid(ctx, movieID, userID, count)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	return movies, nil
}

func (e *Engine) hybrid(ctx context.Context, movieID string, userID *int, count int) ([]models.Movie, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	pool, err := e.contentBased(ctx, movieID, overfetch(count, e.config.Hybrid.OverfetchFactor))
	if err != nil {
		return nil, err
	}

	if userID != nil && len(pool) > 0 {
		ratings, err := e.ratings.GetRatingsForUser(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("get user ratings: %w", err)
		}

		rated := make(map[string]struct{}, len(ratings))
		for _, r := range ratings {
			rated[r.ShowID] = struct{}{}
		}

		sort.SliceStable(pool, func(i, j int) bool {
			_, ri := rated[pool[i].ShowID]
			_, rj := rated[pool[j].ShowID]
			return ri && !rj
		})

		e.logger.Debug().
			Str("show_id", movieID).
			Int("user_id", *userID).
			Int("user_ratings", len(ratings)).
			Msg("hybrid re-rank applied")
	}

	if len(pool) > count {
		pool = pool[:count]
	}
	return pool, nil
}

// overfetch returns count*factor, saturating at math.MaxInt.
func overfetch(count, factor int) int {
	if factor > 1 && count > math.MaxInt/factor {
		return math.MaxInt
	}
	return count * factor
}

// CollaborativeMovieIDs returns the show ids with the highest predicted
// ratings for userID, at most topN of them. Ties keep table order and
// duplicate rows are returned as-is. A user with no rows yields an empty
// list.
func (e *Engine) CollaborativeMovieIDs(userID, topN int) ([]string, error) {
	e.collabRequests.Add(1)

	if topN < 0 {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, topN)
	}

	rows := e.collab.rowsForUser(userID)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PredictedRating > rows[j].PredictedRating
	})

	n := min(topN, len(rows))
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = rows[i].ShowID
	}

	e.logger.Debug().
		Int("user_id", userID).
		Int("rows", len(rows)).
		Int("returned", n).
		Msg("collaborative lookup complete")

	return ids, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		ContentRequests:       e.contentRequests.Load(),
		HybridRequests:        e.hybridRequests.Load(),
		CollaborativeRequests: e.collabRequests.Load(),
		Errors:                e.errorCount.Load(),
		CollaborativeRows:     e.collab.Len(),
		CollaborativeUsers:    e.collab.Users(),
	}
}
