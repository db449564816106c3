package pagecache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached page: one endpoint plus the exact query that
// was sent, cursor included.
type Key struct {
	// Endpoint is the provider endpoint path (e.g., "/appreviews/413150").
	Endpoint string

	// Query is the full outgoing query string, including the cursor.
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: page:endpoint:query1=val1:query2=val2
//
// Example:
//
//	page:appreviews/413150:cursor=AoJ4zN:json=1
func (k Key) String() string {
	parts := []string{"page"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism.
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
