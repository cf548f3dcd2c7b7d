// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/models"
)

// listTable returns the table backing a user list.
func listTable(list models.UserList) (string, error) {
	switch list {
	case models.ListFavorites:
		return tableFavorites, nil
	case models.ListWatchlist:
		return tableWatchlist, nil
	default:
		return "", fmt.Errorf("unknown user list %q", list)
	}
}

// GetUserList returns a user's entries on list, oldest first.
func (db *DB) GetUserList(ctx context.Context, list models.UserList, userID int) ([]models.ListEntry, error) {
	table, err := listTable(list)
	if err != nil {
		return nil, err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	entries, err := db.queryListEntries(ctx,
		"SELECT user_id, show_id, added_at FROM "+table+" WHERE user_id = ? ORDER BY added_at, show_id", userID)
	metrics.RecordDBQuery("select_user", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s for user %d: %w", list, userID, err)
	}
	return entries, nil
}

func (db *DB) queryListEntries(ctx context.Context, query string, args ...any) ([]models.ListEntry, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")

	entries := make([]models.ListEntry, 0)
	for rows.Next() {
		var e models.ListEntry
		if err := rows.Scan(&e.UserID, &e.ShowID, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan list entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddToUserList puts showID on the user's list. Adding an entry that is
// already present returns the stored entry with created false. Returns
// ErrNotFound when the movie is not in the catalog.
func (db *DB) AddToUserList(ctx context.Context, list models.UserList, userID int, showID string) (models.ListEntry, bool, error) {
	table, err := listTable(list)
	if err != nil {
		return models.ListEntry{}, false, err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	entry, created, err := db.addToUserList(ctx, table, userID, showID)
	metrics.RecordDBQuery("insert", table, time.Since(start), ignoreNotFound(err))
	return entry, created, err
}

func (db *DB) addToUserList(ctx context.Context, table string, userID int, showID string) (models.ListEntry, bool, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	entry := models.ListEntry{UserID: userID, ShowID: showID}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return entry, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if err := requireMovie(ctx, tx, showID); err != nil {
		return entry, false, err
	}

	err = tx.QueryRowContext(ctx,
		"SELECT added_at FROM "+table+" WHERE user_id = ? AND show_id = ?", userID, showID).Scan(&entry.AddedAt)
	if err == nil {
		return entry, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entry, false, fmt.Errorf("check %s entry: %w", table, err)
	}

	entry.AddedAt = time.Now().UTC().Truncate(time.Microsecond)
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+table+" (user_id, show_id, added_at) VALUES (?, ?, ?) ON CONFLICT (user_id, show_id) DO NOTHING",
		userID, showID, entry.AddedAt); err != nil {
		return entry, false, fmt.Errorf("insert %s entry for user %d movie %s: %w", table, userID, showID, err)
	}

	if err := tx.Commit(); err != nil {
		return entry, false, fmt.Errorf("commit: %w", err)
	}
	return entry, true, nil
}

// RemoveFromUserList deletes one entry. Returns ErrNotFound when absent.
func (db *DB) RemoveFromUserList(ctx context.Context, list models.UserList, userID int, showID string) error {
	table, err := listTable(list)
	if err != nil {
		return err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE user_id = ? AND show_id = ?", userID, showID)
	metrics.RecordDBQuery("delete", table, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to remove %s entry: %w", list, err)
	}
	return requireAffected(res, fmt.Sprintf("%s entry %d/%s", list, userID, showID))
}

// UpsertListEntries writes a batch of entries without the catalog check,
// for bulk loads. Entries already on the list keep their added_at; a zero
// AddedAt is stored as the current time. Returns the number processed.
func (db *DB) UpsertListEntries(ctx context.Context, list models.UserList, entries []models.ListEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	table, err := listTable(list)
	if err != nil {
		return 0, err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()

	n, err := db.upsertListEntries(ctx, table, entries)
	metrics.RecordDBQuery("upsert_batch", table, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %s entries: %w", list, err)
	}
	return n, nil
}

func (db *DB) upsertListEntries(ctx context.Context, table string, entries []models.ListEntry) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+table+" (user_id, show_id, added_at) VALUES (?, ?, ?) ON CONFLICT (user_id, show_id) DO NOTHING")
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	now := time.Now().UTC()
	for i := range entries {
		e := &entries[i]
		added := e.AddedAt
		if added.IsZero() {
			added = now
		}
		if _, err := stmt.ExecContext(ctx, e.UserID, e.ShowID, added); err != nil {
			return 0, fmt.Errorf("upsert entry user %d movie %s: %w", e.UserID, e.ShowID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(entries), nil
}
