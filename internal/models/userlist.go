// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package models

import (
	"fmt"
	"time"
)

// UserList names a per-user title list.
type UserList string

const (
	ListFavorites UserList = "favorites"
	ListWatchlist UserList = "watchlist"
)

// UserLists returns every list kind.
func UserLists() []UserList {
	return []UserList{ListFavorites, ListWatchlist}
}

// Valid reports whether l is a known list.
func (l UserList) Valid() bool {
	return l == ListFavorites || l == ListWatchlist
}

// ParseUserList converts a list name into a UserList.
func ParseUserList(name string) (UserList, error) {
	l := UserList(name)
	if !l.Valid() {
		return "", fmt.Errorf("unknown user list %q", name)
	}
	return l, nil
}

// ListEntry is one title on a user's favorites or watchlist.
// (UserID, ShowID) is unique within a list.
type ListEntry struct {
	UserID  int       `json:"user_id"`
	ShowID  string    `json:"show_id"`
	AddedAt time.Time `json:"added_at"`
}
