// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are registered on the default registry through promauto and served
at /metrics in the Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

Database:
  - duckdb_query_duration_seconds{operation,table} (histogram)
  - duckdb_query_errors_total{operation,table,error_type} (counter)

API:
  - api_requests_total{method,endpoint,status_code} (counter)
  - api_request_duration_seconds{method,endpoint} (histogram)
  - api_active_requests (gauge)
  - api_rate_limit_hits_total{endpoint} (counter)

Recommendations:
  - recommendation_requests_total{kind,outcome} (counter)
    kind: content, hybrid, collaborative; outcome: success, empty, error
  - recommendation_duration_seconds{kind} (histogram)
  - recommendation_results{kind} (histogram of list sizes)
  - collaborative_table_rows, collaborative_table_users (gauges)

Legacy import:
  - legacy_import_records_total{table,outcome} (counter)
  - legacy_import_batch_duration_seconds (histogram)
  - legacy_import_last_success_timestamp (gauge)

System:
  - app_info{version,go_version}, app_uptime_seconds

# Usage

	start := time.Now()
	movies, err := engine.Hybrid(ctx, id, userID, count)
	metrics.RecordRecommendation(metrics.KindHybrid, time.Since(start), len(movies), err)

Error labels on duckdb_query_errors_total are truncated to 50 characters to
bound cardinality.
*/
package metrics
