// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cineniche/internal/database"
	"github.com/tomtom215/cineniche/internal/legacyimport"
	"github.com/tomtom215/cineniche/internal/models"
	"github.com/tomtom215/cineniche/internal/recommend"
)

// mockStore is an in-memory CatalogStore. Each *Err field, when set, is
// returned by the matching method.
type mockStore struct {
	mu      sync.Mutex
	movies  map[string]models.Movie
	ratings []models.Rating
	lists   map[models.UserList][]models.ListEntry

	getErr     error
	listErr    error
	updateErr  error
	ratingsErr error
	upsertErr  error
	writeErr   error
	pingErr    error

	lastCategories models.CategorySet
}

func newMockStore(movies ...models.Movie) *mockStore {
	s := &mockStore{movies: map[string]models.Movie{}, lists: map[models.UserList][]models.ListEntry{}}
	for _, m := range movies {
		s.movies[m.ShowID] = m
	}
	return s
}

func (s *mockStore) GetMovieByID(_ context.Context, id string) (*models.Movie, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	m, ok := s.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *mockStore) GetMoviesByIDs(_ context.Context, ids []string) ([]models.Movie, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []models.Movie{}
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *mockStore) UpdateMovieCategories(_ context.Context, id string, cats models.CategorySet) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	m, ok := s.movies[id]
	if !ok {
		return fmt.Errorf("movie %s: %w", id, database.ErrNotFound)
	}
	m.Categories = cats
	s.movies[id] = m
	s.lastCategories = cats
	return nil
}

func (s *mockStore) CreateMovie(_ context.Context, m *models.Movie) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[m.ShowID]; ok {
		return fmt.Errorf("show id %s: %w", m.ShowID, database.ErrConflict)
	}
	for id, existing := range s.movies {
		if strings.EqualFold(existing.Title, m.Title) {
			return &database.DuplicateTitleError{Title: m.Title, ExistingID: id}
		}
	}
	s.movies[m.ShowID] = *m
	return nil
}

func (s *mockStore) UpdateMovie(_ context.Context, m *models.Movie) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[m.ShowID]; !ok {
		return fmt.Errorf("movie %s: %w", m.ShowID, database.ErrNotFound)
	}
	s.movies[m.ShowID] = *m
	return nil
}

func (s *mockStore) DeleteMovie(_ context.Context, id string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[id]; !ok {
		return fmt.Errorf("movie %s: %w", id, database.ErrNotFound)
	}
	delete(s.movies, id)
	kept := s.ratings[:0]
	for _, r := range s.ratings {
		if r.ShowID != id {
			kept = append(kept, r)
		}
	}
	s.ratings = kept
	for list, entries := range s.lists {
		var rest []models.ListEntry
		for _, e := range entries {
			if e.ShowID != id {
				rest = append(rest, e)
			}
		}
		s.lists[list] = rest
	}
	return nil
}

func (s *mockStore) GetUserList(_ context.Context, list models.UserList, userID int) ([]models.ListEntry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ListEntry
	for _, e := range s.lists[list] {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *mockStore) AddToUserList(_ context.Context, list models.UserList, userID int, showID string) (models.ListEntry, bool, error) {
	if s.writeErr != nil {
		return models.ListEntry{}, false, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[showID]; !ok {
		return models.ListEntry{}, false, fmt.Errorf("movie %s: %w", showID, database.ErrNotFound)
	}
	for _, e := range s.lists[list] {
		if e.UserID == userID && e.ShowID == showID {
			return e, false, nil
		}
	}
	e := models.ListEntry{UserID: userID, ShowID: showID, AddedAt: time.Now().UTC()}
	s.lists[list] = append(s.lists[list], e)
	return e, true, nil
}

func (s *mockStore) RemoveFromUserList(_ context.Context, list models.UserList, userID int, showID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.lists[list]
	for i, e := range entries {
		if e.UserID == userID && e.ShowID == showID {
			s.lists[list] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s entry %d/%s: %w", list, userID, showID, database.ErrNotFound)
}

func (s *mockStore) GetRatingsForUser(_ context.Context, userID int) ([]models.Rating, error) {
	if s.ratingsErr != nil {
		return nil, s.ratingsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *mockStore) GetRatingsForMovie(_ context.Context, showID string) ([]models.Rating, error) {
	if s.ratingsErr != nil {
		return nil, s.ratingsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.ShowID == showID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *mockStore) UpsertRating(_ context.Context, r *models.Rating) (bool, error) {
	if s.upsertErr != nil {
		return false, s.upsertErr
	}
	if _, ok := s.movies[r.ShowID]; !ok {
		return false, fmt.Errorf("movie %s: %w", r.ShowID, database.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ratings {
		if s.ratings[i].UserID == r.UserID && s.ratings[i].ShowID == r.ShowID {
			s.ratings[i] = *r
			return false, nil
		}
	}
	s.ratings = append(s.ratings, *r)
	return true, nil
}

func (s *mockStore) DeleteRating(_ context.Context, userID int, showID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.ratings {
		if r.UserID == userID && r.ShowID == showID {
			s.ratings = append(s.ratings[:i], s.ratings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rating %d/%s: %w", userID, showID, database.ErrNotFound)
}

func (s *mockStore) AverageRating(_ context.Context, showID string) (float64, error) {
	if s.ratingsErr != nil {
		return 0, s.ratingsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	var n int
	for _, r := range s.ratings {
		if r.ShowID == showID && r.Value != nil {
			sum += *r.Value
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (s *mockStore) Ping(context.Context) error { return s.pingErr }

// mockEngine records the arguments of its last call.
type mockEngine struct {
	results []models.Movie
	ids     []string
	err     error
	stats   recommend.Stats

	// onContent runs inside ContentBased before it returns.
	onContent    func()
	contentCalls int

	lastMovieID string
	lastUserID  *int
	lastCount   int
}

func (e *mockEngine) ContentBased(_ context.Context, movieID string, count int) ([]models.Movie, error) {
	e.lastMovieID, e.lastCount = movieID, count
	e.contentCalls++
	if e.onContent != nil {
		e.onContent()
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.results[:min(count, len(e.results))], nil
}

func (e *mockEngine) Hybrid(_ context.Context, movieID string, userID *int, count int) ([]models.Movie, error) {
	e.lastMovieID, e.lastUserID, e.lastCount = movieID, userID, count
	if e.err != nil {
		return nil, e.err
	}
	return e.results[:min(count, len(e.results))], nil
}

func (e *mockEngine) CollaborativeMovieIDs(userID, topN int) ([]string, error) {
	e.lastUserID, e.lastCount = &userID, topN
	if e.err != nil {
		return nil, e.err
	}
	return e.ids[:min(topN, len(e.ids))], nil
}

func (e *mockEngine) Stats() recommend.Stats { return e.stats }

// mockImporter is a test double for ImportController.
type mockImporter struct {
	mu       sync.Mutex
	running  bool
	imports  int
	startErr error
	stopErr  error
	resetErr error
	done     chan struct{}
}

func newMockImporter() *mockImporter {
	return &mockImporter{done: make(chan struct{}, 1)}
}

func (m *mockImporter) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	if m.running {
		return legacyimport.ErrImportRunning
	}
	m.imports++
	m.done <- struct{}{}
	return nil
}

func (m *mockImporter) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopErr != nil {
		return m.stopErr
	}
	if !m.running {
		return legacyimport.ErrNotRunning
	}
	m.running = false
	return nil
}

func (m *mockImporter) Reset(context.Context) error {
	if m.IsRunning() {
		return legacyimport.ErrImportRunning
	}
	return m.resetErr
}

func (m *mockImporter) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *mockImporter) Summary() *legacyimport.ProgressSummary {
	status := "idle"
	if m.IsRunning() {
		status = "running"
	}
	return &legacyimport.ProgressSummary{Status: status}
}

func (m *mockImporter) setRunning(running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = running
}

// envelope mirrors APIResponse with a raw payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

// testServer builds the full router around the given collaborators with
// rate limiting off.
func testServer(store CatalogStore, engine Recommender, importer ImportController) http.Handler {
	h := NewHandler(store, engine, importer, HandlerConfig{
		Limits:  recommend.DefaultConfig().Limits,
		Version: "test",
	})
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return NewRouter(h, mw).Setup()
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Code != http.StatusNoContent && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}

func floatPtr(v float64) *float64 { return &v }

// sampleMovies is a small catalog: s1 comedy drama, s2 comedy, s3 horror.
func sampleMovies() []models.Movie {
	return []models.Movie{
		{ShowID: "s1", Title: "One", Duration: "1h 30min",
			Categories: models.NewCategorySet(models.CategoryComedies, models.CategoryDramas)},
		{ShowID: "s2", Title: "Two", Duration: "2 Seasons",
			Categories: models.NewCategorySet(models.CategoryComedies)},
		{ShowID: "s3", Title: "Three", Duration: "95 min",
			Categories: models.NewCategorySet(models.CategoryHorrorMovies)},
	}
}
