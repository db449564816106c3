// Package pagecache provides an optional Redis-backed cache for raw
// provider response pages. A harvest that re-runs over an unchanged
// window can replay pages from the cache instead of the wire; correctness
// never depends on the cache being present or populated.
package pagecache

import "time"

// Entry is one cached provider page.
type Entry struct {
	// Body is the raw response body.
	Body []byte `json:"body"`

	// StatusCode is the HTTP status of the cached response.
	StatusCode int `json:"status_code"`

	// FetchedAt is when the page was retrieved from the provider.
	FetchedAt time.Time `json:"fetched_at"`
}
