// Package steam is the source adapter for the Steam appreviews endpoint.
// It wires the generic pipeline (cursor pagination, date-window filter,
// normalization with dedup, deterministic sort) to Steam's endpoint,
// query defaults, and field names.
package steam

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/reviewkit/review-harvest/pkg/client"
	"github.com/reviewkit/review-harvest/pkg/cursor"
	"github.com/reviewkit/review-harvest/pkg/logging"
	"github.com/reviewkit/review-harvest/pkg/pagecache"
	"github.com/reviewkit/review-harvest/pkg/review"
)

// Source is the provider name stamped on every canonical record.
const Source = "steam"

// DefaultBaseURL is the Steam storefront origin.
const DefaultBaseURL = "https://store.steampowered.com"

// initialCursor is Steam's "start from the beginning" token.
const initialCursor = "*"

// Config holds the parameters of one harvest invocation.
type Config struct {
	// AppID is the Steam application whose reviews are harvested.
	AppID int

	// Franchise and GameName are stamped verbatim onto every canonical
	// record of this harvest.
	Franchise string
	GameName  string

	// BaseURL overrides the provider origin (tests point it at a mock).
	BaseURL string

	// UserAgent sent on every request.
	UserAgent string

	// Timeout per request.
	Timeout time.Duration

	// StartDate and EndDate bound the harvest to an inclusive window.
	// The filter applies only when both are set.
	StartDate *time.Time
	EndDate   *time.Time

	// MaxRecords caps the canonical output size (default 5000).
	MaxRecords int

	// MaxRetries is the per-request attempt budget (default 5).
	MaxRetries int

	// RetryDelay is the fixed wait between attempts (default 1s).
	RetryDelay time.Duration

	// OverfetchFactor sizes the pagination stop condition at
	// ceil(MaxRecords × factor) raw records, so duplicate and filtered
	// records cannot leave the cap unreachable. Default 1.2.
	OverfetchFactor float64

	// Cache is an optional page cache for the transport.
	Cache *pagecache.Manager
}

// Harvester runs the review pipeline for one Steam app.
type Harvester struct {
	config Config
	exec   *client.Executor
	logger zerolog.Logger
}

// New creates a harvester from a validated config.
func New(cfg Config) (*Harvester, error) {
	if cfg.AppID <= 0 {
		return nil, fmt.Errorf("app ID is required")
	}
	if cfg.Franchise == "" || cfg.GameName == "" {
		return nil, fmt.Errorf("franchise and game name are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = review.DefaultMaxRecords
	}
	if cfg.OverfetchFactor < 1 {
		cfg.OverfetchFactor = 1.2
	}

	transport, err := client.NewTransport(client.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Cache:     cfg.Cache,
	})
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}

	exec := client.NewExecutor(transport, client.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		Delay:       cfg.RetryDelay,
	})

	return &Harvester{
		config: cfg,
		exec:   exec,
		logger: logging.NewLogger("steam-adapter"),
	}, nil
}

// Endpoint returns the appreviews path for the configured app.
func (h *Harvester) Endpoint() string {
	return "/appreviews/" + strconv.Itoa(h.config.AppID)
}

// queryDefaults are the provider-specific request parameters.
func (h *Harvester) queryDefaults() url.Values {
	return url.Values{
		"json":          []string{"1"},
		"filter":        []string{"recent"},
		"language":      []string{"all"},
		"review_type":   []string{"all"},
		"purchase_type": []string{"all"},
		"num_per_page":  []string{"100"},
	}
}

// Run executes one harvest: paginate, filter, normalize, sort. On any
// fatal error the harvest aborts with no partial output.
func (h *Harvester) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	rawCeiling := int(math.Ceil(float64(h.config.MaxRecords) * h.config.OverfetchFactor))
	strat := newStrategy(rawCeiling)

	h.logger.Info().
		Int("app_id", h.config.AppID).
		Int("cap", h.config.MaxRecords).
		Int("raw_ceiling", rawCeiling).
		Msg("Starting harvest")

	raw, err := cursor.FollowCursor(ctx, h.exec, cursor.Request{
		Endpoint: h.Endpoint(),
		Query:    h.queryDefaults(),
	}, initialCursor, strat)
	if err != nil {
		return nil, fmt.Errorf("harvest %s: %w", h.Endpoint(), err)
	}

	// The window filter runs on raw timestamps before normalization
	// truncates them to dates. Applied only when both bounds are set.
	if h.config.StartDate != nil && h.config.EndDate != nil {
		raw, err = review.FilterWindow(raw, *h.config.StartDate, *h.config.EndDate, CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("filter window: %w", err)
		}
	}

	normalizer := review.Normalizer{
		Mapper:     Mapper{},
		Franchise:  h.config.Franchise,
		GameName:   h.config.GameName,
		Source:     Source,
		MaxRecords: h.config.MaxRecords,
	}
	reviews, err := normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	review.Sort(reviews)

	h.logger.Info().
		Int("app_id", h.config.AppID).
		Int("reviews", len(reviews)).
		Dur("duration", time.Since(start)).
		Msg("Harvest complete")

	return newResult(h.config.Franchise, h.config.GameName, reviews), nil
}
