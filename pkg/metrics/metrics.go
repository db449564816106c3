// Package metrics provides the centralized Prometheus metrics registry
// for the review harvester. All metrics are defined in their respective
// packages (client, cursor, review, pagecache) to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the harvester.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Transport Metrics (pkg/client):
//   - harvest_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status ("cached" for cache hits, "network_error" for transport failures)
//   - harvest_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//
// Retry Metrics (pkg/client):
//   - harvest_retries_total{endpoint} (Counter): Retry attempts by endpoint
//   - harvest_retry_exhausted_total{endpoint} (Counter): Requests that exhausted the retry budget
//
// Pagination Metrics (pkg/cursor):
//   - harvest_pages_total{endpoint} (Counter): Pages fetched by endpoint
//   - harvest_raw_records_total{endpoint} (Counter): Raw records accumulated by endpoint
//
// Normalization Metrics (pkg/review):
//   - harvest_duplicate_records_total (Counter): Raw records dropped as duplicates
//   - harvest_normalized_records_total (Counter): Canonical records emitted
//
// Page Cache Metrics (pkg/pagecache):
//   - harvest_page_cache_hits_total (Counter): Pages served from cache
//   - harvest_page_cache_misses_total (Counter): Page cache misses
//   - harvest_page_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Page Cache Hit Rate
//   sum(rate(harvest_page_cache_hits_total[5m])) /
//   (sum(rate(harvest_page_cache_hits_total[5m])) + sum(rate(harvest_page_cache_misses_total[5m])))
//
//   # Duplicate Rate
//   rate(harvest_duplicate_records_total[5m]) / rate(harvest_raw_records_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(harvest_request_duration_seconds_bucket[5m]))
