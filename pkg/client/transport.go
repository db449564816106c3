// Package client provides the provider-facing HTTP transport and the
// fixed-interval retrying request executor built on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/reviewkit/review-harvest/pkg/logging"
	"github.com/reviewkit/review-harvest/pkg/pagecache"
)

// Prometheus metrics for transport operations.
var (
	harvestRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_requests_total",
		Help: "Total provider requests by endpoint and status",
	}, []string{"endpoint", "status"})

	harvestRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "harvest_request_duration_seconds",
		Help:    "Provider request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})
)

// Response is the outcome of one provider request. Body is fully read;
// application-level HTTP errors are reported through StatusCode, not as
// Go errors.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Config holds the transport configuration.
type Config struct {
	// BaseURL is the provider origin (e.g., "https://store.steampowered.com").
	BaseURL string

	// UserAgent header sent on every request.
	UserAgent string

	// Timeout per request.
	Timeout time.Duration

	// Cache is an optional page cache. When set, GET responses with
	// status 200 are cached and replayed for identical endpoint+query.
	Cache *pagecache.Manager
}

// Transport performs single GET requests against the provider.
type Transport struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// NewTransport creates a provider transport.
func NewTransport(cfg Config) (*Transport, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "review-harvest/1.0"
	}

	return &Transport{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logging.NewLogger("transport"),
	}, nil
}

// Get performs one GET request. jsonBody, when non-nil, is marshalled and
// sent as the request body; query params are appended to the endpoint.
//
// Transport-level failures (connect error, timeout) are returned wrapped
// in ErrTransport. HTTP error statuses are NOT errors here: the response
// is returned as-is and classification is left to the caller.
func (t *Transport) Get(ctx context.Context, endpoint string, jsonBody any, query url.Values) (*Response, error) {
	startTime := time.Now()
	defer func() {
		harvestRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	cacheKey := pagecache.Key{Endpoint: endpoint, Query: query}
	if t.config.Cache != nil {
		entry, err := t.config.Cache.Get(ctx, cacheKey)
		if err != nil && err != pagecache.ErrCacheMiss {
			t.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Page cache get error")
		}
		if entry != nil {
			t.logger.Debug().
				Str("endpoint", endpoint).
				Time("fetched_at", entry.FetchedAt).
				Msg("Serving page from cache")
			harvestRequestsTotal.WithLabelValues(endpoint, "cached").Inc()
			return &Response{StatusCode: entry.StatusCode, Body: entry.Body}, nil
		}
	}

	u := t.config.BaseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if jsonBody != nil {
		data, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.config.UserAgent)
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	t.logger.Debug().
		Str("endpoint", endpoint).
		Int("query_params", len(query)).
		Msg("Executing provider request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		harvestRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		harvestRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	harvestRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		t.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Provider returned error status")
	}

	if t.config.Cache != nil && resp.StatusCode == http.StatusOK {
		entry := &pagecache.Entry{
			Body:       data,
			StatusCode: resp.StatusCode,
			FetchedAt:  time.Now().UTC(),
		}
		if err := t.config.Cache.Set(ctx, cacheKey, entry); err != nil {
			t.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache page")
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Header:     resp.Header,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (t *Transport) SetHTTPClient(client *http.Client) {
	t.httpClient = client
}
