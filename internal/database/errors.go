// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/cineniche/internal/logging"
)

var (
	// ErrNotFound is returned by mutating operations whose target row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would duplicate an existing row.
	ErrConflict = errors.New("conflict")
)

// DuplicateTitleError is returned by CreateMovie when a title with the
// same name (ignoring case) already exists. It matches ErrConflict.
type DuplicateTitleError struct {
	Title      string
	ExistingID string
}

func (e *DuplicateTitleError) Error() string {
	return fmt.Sprintf("title %q already exists as %s", e.Title, e.ExistingID)
}

// Unwrap makes errors.Is(err, ErrConflict) hold.
func (e *DuplicateTitleError) Unwrap() error { return ErrConflict }

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackQuietly rolls back a transaction that may already be committed.
func rollbackQuietly(tx interface{ Rollback() error }) {
	_ = tx.Rollback()
}
