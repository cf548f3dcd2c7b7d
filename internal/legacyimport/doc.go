// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package legacyimport migrates a legacy SQLite movies database into the
DuckDB catalog.

The legacy file holds movies_titles (one row per title with a 0/1 column
per genre) and movies_ratings (user_id, show_id, rating). Newer files
also carry user_favorites and user_watchlist (user_id, movie_id); older
ones without them import with empty lists. Two readers are available:

  - GormReader opens the file with GORM and the mattn SQLite driver.
  - DuckDBReader attaches it to an in-memory DuckDB via sqlite_scanner.

The Importer pages through movies, ratings, favorites and the watchlist
in that order with keyset pagination, upserts each batch and saves a checkpoint after it. Rows
without a key (empty show_id, NULL user_id) are counted as skipped. A
failed batch write is counted in Errors and the import moves on.

# Checkpoints

BadgerProgress keeps the checkpoint on disk so a restarted process
resumes from the last saved batch; InMemoryProgress is for tests and
dry runs. Reset clears the checkpoint.

# Throttling

ImportConfig.BatchesPerSecond caps the batch rate with a token bucket
from golang.org/x/time/rate. Zero means unthrottled.
*/
package legacyimport
