// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package recommend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CollaborativeRow is one precomputed (user, movie, predicted rating) triple.
type CollaborativeRow struct {
	UserID          int
	ShowID          string
	PredictedRating float64
}

// CollaborativeTable is the offline collaborative-filtering output, held in
// memory. It is never modified after construction, so concurrent readers
// need no locking.
type CollaborativeTable struct {
	rows   []CollaborativeRow
	byUser map[int][]int // user id -> row indexes in file order
	source string
}

// NewCollaborativeTable builds a table from rows already in memory.
// The rows are copied.
func NewCollaborativeTable(rows []CollaborativeRow) *CollaborativeTable {
	t := &CollaborativeTable{
		rows:   make([]CollaborativeRow, len(rows)),
		byUser: make(map[int][]int),
		source: "memory",
	}
	copy(t.rows, rows)
	for i, r := range t.rows {
		t.byUser[r.UserID] = append(t.byUser[r.UserID], i)
	}
	return t
}

// Len returns the number of rows in the table.
func (t *CollaborativeTable) Len() int {
	return len(t.rows)
}

// Users returns the number of distinct users in the table.
func (t *CollaborativeTable) Users() int {
	return len(t.byUser)
}

// Source describes where the table was loaded from.
func (t *CollaborativeTable) Source() string {
	return t.source
}

// rowsForUser returns a fresh slice of the user's rows in file order.
func (t *CollaborativeTable) rowsForUser(userID int) []CollaborativeRow {
	idx := t.byUser[userID]
	out := make([]CollaborativeRow, len(idx))
	for i, j := range idx {
		out[i] = t.rows[j]
	}
	return out
}

// header aliases accepted for each column, lower-cased.
var (
	userColumns   = []string{"userid", "user_id"}
	showColumns   = []string{"showid", "show_id", "movieid", "movie_id"}
	ratingColumns = []string{"predictedrating", "predicted_rating", "prediction", "rating"}
)

// LoadCollaborativeTable reads a CSV file of collaborative predictions.
// See ParseCollaborativeTable for the format.
func LoadCollaborativeTable(path string) (*CollaborativeTable, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open collaborative table: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	t, err := ParseCollaborativeTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse collaborative table %s: %w", path, err)
	}
	t.source = path
	return t, nil
}

// ParseCollaborativeTable reads collaborative predictions from CSV.
//
// The first record is a header naming the columns, e.g.
// "UserId,ShowId,PredictedRating" (snake_case is also accepted, and
// column order is free). Every following record must have a valid integer
// user id, a non-empty show id and a float predicted rating; the first bad
// row fails the whole parse.
func ParseCollaborativeTable(r io.Reader) (*CollaborativeTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	userCol, showCol, ratingCol, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = len(header)

	var rows []CollaborativeRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		userID, err := strconv.Atoi(strings.TrimSpace(rec[userCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid user id %q", line, rec[userCol])
		}
		showID := strings.TrimSpace(rec[showCol])
		if showID == "" {
			return nil, fmt.Errorf("line %d: empty show id", line)
		}
		predicted, err := strconv.ParseFloat(strings.TrimSpace(rec[ratingCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid predicted rating %q", line, rec[ratingCol])
		}

		rows = append(rows, CollaborativeRow{
			UserID:          userID,
			ShowID:          showID,
			PredictedRating: predicted,
		})
	}

	return NewCollaborativeTable(rows), nil
}

func resolveColumns(header []string) (user, show, rating int, err error) {
	find := func(aliases []string) int {
		for i, h := range header {
			name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
			for _, a := range aliases {
				if name == a {
					return i
				}
			}
		}
		return -1
	}

	user, show, rating = find(userColumns), find(showColumns), find(ratingColumns)
	switch {
	case user < 0:
		return 0, 0, 0, fmt.Errorf("header %v has no user id column", header)
	case show < 0:
		return 0, 0, 0, fmt.Errorf("header %v has no show id column", header)
	case rating < 0:
		return 0, 0, 0, fmt.Errorf("header %v has no predicted rating column", header)
	}
	return user, show, rating, nil
}
