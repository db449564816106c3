package client

import (
	"context"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/reviewkit/review-harvest/pkg/logging"
)

// Prometheus metrics for retry operations.
var (
	harvestRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_retries_total",
		Help: "Total number of retry attempts by endpoint",
	}, []string{"endpoint"})

	harvestRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by endpoint",
	}, []string{"endpoint"})
)

// RetryConfig holds the configuration for retry logic. Retries are
// deliberately simple: a fixed attempt budget with a fixed delay between
// attempts. No exponential backoff, no jitter.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first).
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		Delay:       1 * time.Second,
	}
}

// Executor wraps a Transport with fixed-interval retry on transient
// transport failures. A caller blocks for at most MaxAttempts × Delay
// per logical request.
type Executor struct {
	transport *Transport
	config    RetryConfig
	logger    zerolog.Logger
}

// NewExecutor creates a retrying request executor around a transport.
func NewExecutor(transport *Transport, cfg RetryConfig) *Executor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 1 * time.Second
	}
	return &Executor{
		transport: transport,
		config:    cfg,
		logger:    logging.NewLogger("executor"),
	}
}

// Execute performs a GET through the transport, retrying transport-level
// failures up to the configured budget. After exhausting the budget it
// returns a ConnectionError naming the endpoint and payloads attempted.
// HTTP error statuses pass through untouched.
func (e *Executor) Execute(ctx context.Context, endpoint string, jsonBody any, query url.Values) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		resp, err := e.transport.Get(ctx, endpoint, jsonBody, query)
		if err == nil {
			if attempt > 1 {
				e.logger.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return resp, nil
		}

		lastErr = err

		if !shouldRetry(err) {
			// Not a transport failure; surface immediately.
			return nil, err
		}

		if attempt >= e.config.MaxAttempts {
			break
		}

		harvestRetriesTotal.WithLabelValues(endpoint).Inc()
		e.logger.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("delay", e.config.Delay).
			Msg("Retrying request after fixed delay")

		// Wait with context cancellation support.
		select {
		case <-ctx.Done():
			e.logger.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Msg("Context cancelled during retry delay")
			return nil, &ConnectionError{
				Endpoint: endpoint,
				Body:     jsonBody,
				Query:    query,
				Attempts: attempt,
				Err:      ErrContextCancelled,
			}
		case <-time.After(e.config.Delay):
		}
	}

	harvestRetryExhaustedTotal.WithLabelValues(endpoint).Inc()
	e.logger.Warn().
		Str("endpoint", endpoint).
		Int("max_attempts", e.config.MaxAttempts).
		Msg("Retry attempts exhausted")

	return nil, &ConnectionError{
		Endpoint: endpoint,
		Body:     jsonBody,
		Query:    query,
		Attempts: e.config.MaxAttempts,
		Err:      lastErr,
	}
}
