// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package database provides the DuckDB-backed catalog and rating store.

# Tables

  - movies_titles: one row per title, keyed by show_id. Descriptive columns
    are nullable text; every genre is a BOOLEAN flag column named after
    models.Category (for example "Action", "TV_Dramas").
  - movies_ratings: one row per (user_id, show_id) with a nullable DOUBLE
    rating and optional review text.

# Recommendation Store

DB satisfies recommend.MovieStore and recommend.RatingStore. GetMovieByID
returns (nil, nil) for unknown ids so the engine can tell "absent" apart
from a query failure.

# Seeding

SeedFromCSV loads the SeedData CSV exports through DuckDB's read_csv when
the target tables are empty. Flag columns may be 0/1 or true/false.

# Metrics

Every query is timed and reported through metrics.RecordDBQuery with the
operation and table names as labels.

# Thread Safety

DB is safe for concurrent use; all state lives in DuckDB and the
database/sql pool.
*/
package database
