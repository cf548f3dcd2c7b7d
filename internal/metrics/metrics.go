// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation kinds used as the "kind" label.
const (
	KindContent       = "content"
	KindHybrid        = "hybrid"
	KindCollaborative = "collaborative"
)

// Request outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total recommendation requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time to compute a recommendation list in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_results",
			Help:    "Number of titles returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 50, 100, 250, 500},
		},
		[]string{"kind"},
	)

	RecommendationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_lookups_total",
			Help: "Content-based result cache lookups by result (hit or miss)",
		},
		[]string{"result"},
	)

	CollaborativeTableRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collaborative_table_rows",
			Help: "Rows in the loaded collaborative-filtering table",
		},
	)

	CollaborativeTableUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collaborative_table_users",
			Help: "Distinct users in the loaded collaborative-filtering table",
		},
	)

	// Legacy Import Metrics
	LegacyImportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legacy_import_records_total",
			Help: "Records read from the legacy SQLite database by table and outcome",
		},
		[]string{"table", "outcome"}, // outcome: imported, skipped, error
	)

	LegacyImportBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "legacy_import_batch_duration_seconds",
			Help:    "Duration of one legacy import batch in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	LegacyImportLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "legacy_import_last_success_timestamp",
			Help: "Unix time of the last completed legacy import",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendation records one recommendation request. results is
// ignored when err is non-nil.
func RecordRecommendation(kind string, duration time.Duration, results int, err error) {
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())

	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeError
	case results == 0:
		outcome = OutcomeEmpty
	}
	RecommendationRequests.WithLabelValues(kind, outcome).Inc()

	if err == nil {
		RecommendationResults.WithLabelValues(kind).Observe(float64(results))
	}
}

// RecordCacheLookup counts one result cache lookup.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	RecommendationCacheLookups.WithLabelValues(result).Inc()
}

// SetCollaborativeTable publishes the size of the loaded table.
func SetCollaborativeTable(rows, users int) {
	CollaborativeTableRows.Set(float64(rows))
	CollaborativeTableUsers.Set(float64(users))
}

// RecordLegacyImport adds per-batch import counts for one table.
func RecordLegacyImport(table string, imported, skipped, errored int) {
	if imported > 0 {
		LegacyImportRecords.WithLabelValues(table, "imported").Add(float64(imported))
	}
	if skipped > 0 {
		LegacyImportRecords.WithLabelValues(table, "skipped").Add(float64(skipped))
	}
	if errored > 0 {
		LegacyImportRecords.WithLabelValues(table, "error").Add(float64(errored))
	}
}

// RecordLegacyImportBatch records how long one batch took.
func RecordLegacyImportBatch(duration time.Duration) {
	LegacyImportBatchDuration.Observe(duration.Seconds())
}

// MarkLegacyImportSuccess stamps the completion time of an import.
func MarkLegacyImportSuccess() {
	LegacyImportLastSuccess.Set(float64(time.Now().Unix()))
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// StartUptimeTracker updates AppUptime every interval until stop is closed.
func StartUptimeTracker(start time.Time, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				AppUptime.Set(time.Since(start).Seconds())
			case <-stop:
				return
			}
		}
	}()
}
