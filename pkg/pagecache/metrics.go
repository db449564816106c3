package pagecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageHits tracks cached pages served without a provider request.
	PageHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "harvest_page_cache_hits_total",
			Help: "Total number of provider pages served from cache",
		},
	)

	// PageMisses tracks cache misses.
	PageMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "harvest_page_cache_misses_total",
			Help: "Total number of provider page cache misses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvest_page_cache_errors_total",
			Help: "Total number of page cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
