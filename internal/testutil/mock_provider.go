// Package testutil provides testing utilities for the review harvester.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockProvider is a configurable mock review API server with
// cursor-paged responses.
type MockProvider struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	LastQuery    map[string]string
}

// NewMockProvider creates a new mock provider server.
func NewMockProvider() *MockProvider {
	mock := &MockProvider{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		query := make(map[string]string)
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		mock.LastQuery = query
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":0}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockProvider) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockProvider) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastQuery = nil
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockProvider) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// SetHandler sets a custom handler for a specific path.
func (m *MockProvider) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetPagedReviews configures a path to serve the given pages in cursor
// order. The first page answers cursor "*" (or no cursor); each page
// responds with the token of the next one; the final page omits the
// cursor key, which ends pagination.
func (m *MockProvider) SetPagedReviews(path string, pages [][]map[string]any) {
	byCursor := make(map[string]int, len(pages))
	for i := range pages {
		if i == 0 {
			byCursor["*"] = 0
			byCursor[""] = 0
			continue
		}
		byCursor[pageToken(i)] = i
	}

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("cursor")
		idx, known := byCursor[token]

		w.Header().Set("Content-Type", "application/json")
		if !known {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":0}`))
			return
		}

		body := map[string]any{
			"success": 1,
			"reviews": pages[idx],
		}
		if idx+1 < len(pages) {
			body["cursor"] = pageToken(idx + 1)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	})
}

func pageToken(i int) string {
	return fmt.Sprintf("cursor-%d", i)
}

// ReviewFixture builds a plausible raw review record for tests.
func ReviewFixture(recommendationID, steamID string, created int64) map[string]any {
	return map[string]any{
		"recommendationid": recommendationID,
		"author": map[string]any{
			"steamid":          steamID,
			"playtime_forever": float64(7200), // minutes
		},
		"review":            "Great game, would harvest again.",
		"timestamp_created": float64(created),
		"voted_up":          true,
		"votes_up":          float64(10),
		"votes_funny":       float64(2),
		"comment_count":     float64(1),
	}
}
