// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package legacyimport

import (
	"strings"
	"testing"
)

func TestDuckDBReader(t *testing.T) {
	t.Parallel()

	r, err := NewDuckDBReader(createLegacyDB(t))
	if err != nil {
		if strings.Contains(err.Error(), "load sqlite extension") {
			t.Skipf("sqlite_scanner unavailable: %v", err)
		}
		t.Fatalf("NewDuckDBReader() error = %v", err)
	}
	defer r.Close()

	checkLegacyReader(t, r)
}

func TestDuckDBReader_WithoutListTables(t *testing.T) {
	t.Parallel()

	r, err := NewDuckDBReader(writeLegacyDB(t, false))
	if err != nil {
		if strings.Contains(err.Error(), "load sqlite extension") {
			t.Skipf("sqlite_scanner unavailable: %v", err)
		}
		t.Fatalf("NewDuckDBReader() error = %v", err)
	}
	defer r.Close()

	checkReaderWithoutLists(t, r)
}
