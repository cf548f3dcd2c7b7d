// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cineniche/internal/cache"
)

// readyPingTimeout bounds the readiness database ping.
const readyPingTimeout = 2 * time.Second

// HealthStatus is the body of /health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyStatus is the body of /health/ready.
type ReadyStatus struct {
	Ready              bool         `json:"ready"`
	DatabaseConnected  bool         `json:"database_connected"`
	CollaborativeRows  int          `json:"collaborative_rows"`
	CollaborativeUsers int          `json:"collaborative_users"`
	ImportRunning      bool         `json:"import_running"`
	UptimeSeconds      float64      `json:"uptime_seconds"`
	Cache              *cache.Stats `json:"cache,omitempty"`
}

// Health handles GET /health and /health/live. It reports the process is
// alive regardless of dependencies.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        "healthy",
		Version:       h.cfg.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /health/ready. The service is ready when the
// database answers a ping and the collaborative table has rows; otherwise
// it answers 503 with the same body.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	dbConnected := h.store != nil && h.store.Ping(ctx) == nil

	status := ReadyStatus{
		DatabaseConnected: dbConnected,
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
	}
	if h.engine != nil {
		stats := h.engine.Stats()
		status.CollaborativeRows = stats.CollaborativeRows
		status.CollaborativeUsers = stats.CollaborativeUsers
	}
	if h.importer != nil {
		status.ImportRunning = h.importer.IsRunning()
	}
	if h.cache != nil {
		stats := h.cache.GetStats()
		status.Cache = &stats
	}
	status.Ready = dbConnected && status.CollaborativeRows > 0

	rw := NewResponseWriter(w, r)
	if !status.Ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service is not ready", status)
		return
	}
	rw.Success(status)
}
