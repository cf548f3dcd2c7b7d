// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package main is the entry point for the CineNiche server.

CineNiche serves a movie and TV catalog over a JSON REST API together with
three kinds of recommendation: content-based (genre similarity),
hybrid (content-based re-ranked by a user's ratings) and collaborative
(a precomputed prediction table loaded from CSV).

# Process Layout

	cineniche
	├── data-layer
	│   └── duckdb-checkpoint
	├── worker-layer
	│   └── legacy-import (IMPORT_ENABLED=true)
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration: koanf v2, defaults < config.yaml < environment
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB, schema created on first open
 4. Seed: movies_titles.csv and movies_ratings.csv into empty tables
 5. Collaborative table: collab.csv, required
 6. Recommendation engine
 7. Supervisor tree
 8. Legacy import service, when enabled
 9. HTTP server

A missing or malformed collaborative table stops startup.

# Configuration

	HTTP_PORT=5000
	DUCKDB_PATH=/data/cineniche.duckdb
	SEED_MOVIES_CSV=SeedData/movies_titles.csv
	SEED_RATINGS_CSV=SeedData/movies_ratings.csv
	COLLAB_CSV_PATH=SeedData/collab.csv
	LOG_LEVEL=info
	LOG_FORMAT=json

	# Legacy SQLite import
	IMPORT_ENABLED=true
	IMPORT_SQLITE_PATH=/data/Movies.db
	IMPORT_READER=gorm            # or duckdb
	IMPORT_PROGRESS_DIR=/data/import-progress
	IMPORT_AUTO_START=true

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, then the database is
checkpointed and closed. Services that do not stop in time are logged.
*/
package main
