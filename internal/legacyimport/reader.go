// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/cineniche/internal/models"
)

// Legacy table names.
const (
	moviesTable    = "movies_titles"
	ratingsTable   = "movies_ratings"
	favoritesTable = "user_favorites"
	watchlistTable = "user_watchlist"
)

// requiredTables must exist in a legacy database. The user list tables
// are optional; older files predate them.
var requiredTables = []string{moviesTable, ratingsTable}

// legacyListTable returns the legacy table holding a user list.
func legacyListTable(list models.UserList) string {
	if list == models.ListFavorites {
		return favoritesTable
	}
	return watchlistTable
}

// Reader pages through a legacy movies database.
//
// Every read method uses keyset pagination: movies ordered by show_id,
// ratings and list entries by (user_id, show_id). Rows without a usable
// key are never returned; they are reported by Counts instead.
type Reader interface {
	// Counts returns row totals for every table.
	Counts(ctx context.Context) (SourceCounts, error)

	// ReadMovies returns up to limit movies with show_id > afterShowID.
	ReadMovies(ctx context.Context, afterShowID string, limit int) ([]models.Movie, error)

	// ReadRatings returns up to limit ratings after the given key, or
	// from the start when after is nil.
	ReadRatings(ctx context.Context, after *RatingKey, limit int) ([]models.Rating, error)

	// ReadListEntries returns up to limit entries of a user list after
	// the given key. A database without the list's table has no entries.
	ReadListEntries(ctx context.Context, list models.UserList, after *RatingKey, limit int) ([]models.ListEntry, error)

	// Close releases the reader's resources.
	Close() error
}

// movieColumns lists the descriptive columns of movies_titles in select order.
var movieColumns = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"release_year", "rating", "duration", "description",
}

// selectMovieColumns returns the quoted movies_titles column list,
// descriptive columns first and then every genre flag.
func selectMovieColumns() string {
	cats := models.AllCategories()
	cols := make([]string, 0, len(movieColumns)+len(cats))
	for _, c := range movieColumns {
		cols = append(cols, `"`+c+`"`)
	}
	for _, c := range cats {
		cols = append(cols, `"`+c.String()+`"`)
	}
	return strings.Join(cols, ", ")
}

// rowToMovie converts a generic column map into a Movie. Flag columns are
// set when they hold a non-zero number or a truthy string.
func rowToMovie(row map[string]any) (models.Movie, error) {
	m := models.Movie{
		ShowID:      asString(row["show_id"]),
		Type:        asString(row["type"]),
		Title:       asString(row["title"]),
		Director:    asString(row["director"]),
		Cast:        asString(row["cast"]),
		Country:     asString(row["country"]),
		Rating:      asString(row["rating"]),
		Duration:    asString(row["duration"]),
		Description: asString(row["description"]),
	}
	if m.ShowID == "" {
		return m, fmt.Errorf("movie row without show_id")
	}

	year, err := asInt(row["release_year"])
	if err != nil {
		return m, fmt.Errorf("movie %s release_year: %w", m.ShowID, err)
	}
	m.ReleaseYear = int(year)

	for _, c := range models.AllCategories() {
		v, err := asInt(row[c.String()])
		if err != nil {
			return m, fmt.Errorf("movie %s flag %s: %w", m.ShowID, c, err)
		}
		if v != 0 {
			m.Categories = m.Categories.Add(c)
		}
	}
	return m, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// asInt reads the loosely typed integers SQLite hands back.
func asInt(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string, []byte:
		s := strings.TrimSpace(asString(t))
		if s == "" {
			return 0, nil
		}
		if b, err := strconv.ParseBool(s); err == nil {
			if b {
				return 1, nil
			}
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// listShowColumn is the show id column of the legacy user list tables.
const listShowColumn = "movie_id"

// ratingKeyset returns the WHERE fragment and arguments that start a
// ratings page after the given key.
func ratingKeyset(after *RatingKey) (string, []any) {
	return pairKeyset("show_id", after)
}

// pairKeyset is ratingKeyset for any table keyed by user_id and showCol.
func pairKeyset(showCol string, after *RatingKey) (string, []any) {
	base := "user_id IS NOT NULL AND " + showCol + " IS NOT NULL AND " + showCol + " <> ''"
	if after == nil {
		return base, nil
	}
	return base + " AND (user_id > ? OR (user_id = ? AND " + showCol + " > ?))",
		[]any{after.UserID, after.UserID, after.ShowID}
}

// unkeyedPair is the WHERE fragment matching rows pairKeyset never returns.
func unkeyedPair(showCol string) string {
	return "user_id IS NULL OR " + showCol + " IS NULL OR " + showCol + " = ''"
}

// movieKeyset is the WHERE fragment for a movies page after a show_id.
const movieKeyset = "show_id IS NOT NULL AND show_id <> '' AND show_id > ?"
