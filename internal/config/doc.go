// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package config provides centralized configuration management for CineNiche.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. The file is taken from CONFIG_PATH
or the first of DefaultConfigPaths that exists.

# Environment Variables

Environment names are flat and mapped to nested keys:

	HTTP_PORT          server.port
	DUCKDB_PATH        database.path
	SEED_MOVIES_CSV    database.seed_movies_csv
	COLLAB_CSV_PATH    recommend.collaborative_path
	IMPORT_ENABLED     import.enabled
	RATE_LIMIT_WINDOW  api.rate_limit_window
	LOG_LEVEL          logging.level

Unknown environment variables are ignored.

# Example config.yaml

	server:
	  port: 5000
	database:
	  path: /data/cineniche.duckdb
	  seed_movies_csv: SeedData/movies_titles.csv
	recommend:
	  collaborative_path: SeedData/collab.csv
	import:
	  enabled: true
	  sqlite_path: /data/Movies.db
	  progress_dir: /data/import-progress

# Validation

LoadWithKoanf calls Config.Validate before returning. Error messages name
the environment variable to fix.
*/
package config
