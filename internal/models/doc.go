// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package models defines the catalog data shared by storage, the
recommendation engine and the API.

Key Components:

  - Movie: one catalog title (movie or TV show) with its metadata and the
    set of categories it belongs to
  - Rating: one user's rating of one title, keyed by (UserID, ShowID)
  - ListEntry: one title on a UserList, either favorites or watchlist
  - Category: one of the fixed genre flags of the legacy catalog, stored as
    a bit in a CategorySet
  - ResolveGenres: maps free-form genre labels ("Comedy", "Anime") to the
    categories they set

Categories are a closed set. Their order is stable and matches the flag
columns of movies_titles, so a CategorySet fits in one uint64 and Jaccard
similarity is two popcounts:

	a := models.NewCategorySet(models.CategoryComedies, models.CategoryDramas)
	b := models.NewCategorySet(models.CategoryComedies)
	shared := a.Intersect(b).Len() // 1
	either := a.Union(b).Len()     // 2

CategorySet marshals as a JSON array of category names.

Runtime is derived from Movie.Duration: "90 min" gives 90, "1h 30min"
gives 90, and season counts such as "2 Seasons" give nil.
*/
package models
