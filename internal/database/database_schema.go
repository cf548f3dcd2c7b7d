// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cineniche/internal/models"
)

const (
	tableMovies    = "movies_titles"
	tableRatings   = "movies_ratings"
	tableFavorites = "movies_favorites"
	tableWatchlist = "movies_watchlist"
)

// descriptiveColumns are the non-flag columns of movies_titles in scan order.
var descriptiveColumns = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"release_year", "rating", "duration", "description",
}

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// quoteIdent quotes a column name for DuckDB.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// movieColumnList is the quoted, comma-separated movies_titles column list.
func movieColumnList() string {
	cols := make([]string, 0, len(descriptiveColumns)+len(models.AllCategories()))
	for _, c := range descriptiveColumns {
		cols = append(cols, quoteIdent(c))
	}
	for _, c := range models.AllCategories() {
		cols = append(cols, quoteIdent(c.String()))
	}
	return strings.Join(cols, ", ")
}

// createTables creates the catalog tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	var flags strings.Builder
	for _, c := range models.AllCategories() {
		fmt.Fprintf(&flags, ",\n\t\t\t%s BOOLEAN NOT NULL DEFAULT false", quoteIdent(c.String()))
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS movies_titles (
			show_id TEXT PRIMARY KEY,
			type TEXT,
			title TEXT,
			director TEXT,
			"cast" TEXT,
			country TEXT,
			release_year INTEGER,
			rating TEXT,
			duration TEXT,
			description TEXT` + flags.String() + `
		);`,

		`CREATE TABLE IF NOT EXISTS movies_ratings (
			user_id INTEGER NOT NULL,
			show_id TEXT NOT NULL,
			rating DOUBLE,
			review TEXT,
			PRIMARY KEY (user_id, show_id)
		);`,

		userListTableQuery(tableFavorites),
		userListTableQuery(tableWatchlist),
	}
}

// userListTableQuery creates one per-user title list table.
func userListTableQuery(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
			user_id INTEGER NOT NULL,
			show_id TEXT NOT NULL,
			added_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
			PRIMARY KEY (user_id, show_id)
		);`
}

// createIndexes creates secondary indexes unless cfg.SkipIndexes is set.
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}

	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}
	return nil
}

// getIndexQueries returns index creation SQL statements
func getIndexQueries() []string {
	return []string{
		// Only never-updated columns are indexed; DuckDB rewrites updates
		// of indexed columns as delete+insert.
		`CREATE INDEX IF NOT EXISTS idx_ratings_show_id ON movies_ratings(show_id);`,
	}
}
