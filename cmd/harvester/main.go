// Command harvester runs one review harvest for a Steam app and writes
// the canonical collection to a JSON file and/or a sqlite database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"

	"github.com/reviewkit/review-harvest/pkg/logging"
	"github.com/reviewkit/review-harvest/pkg/pagecache"
	"github.com/reviewkit/review-harvest/pkg/review"
	"github.com/reviewkit/review-harvest/pkg/sink"
	"github.com/reviewkit/review-harvest/pkg/steam"
)

// AppConfig holds all harvester configuration with support for
// environment variables and command-line flags.
type AppConfig struct {
	// Harvest target
	AppID     int    `long:"app-id" env:"APP_ID" description:"Steam app ID to harvest reviews for" required:"true"`
	Franchise string `long:"franchise" env:"FRANCHISE" description:"Franchise name stamped onto every record" required:"true"`
	GameName  string `long:"game-name" env:"GAME_NAME" description:"Game name stamped onto every record" required:"true"`

	// Harvest bounds
	MaxRecords int    `long:"max-records" env:"MAX_RECORDS" default:"5000" description:"Maximum number of canonical records to emit"`
	StartDate  string `long:"start-date" env:"START_DATE" description:"Inclusive window start (YYYY-MM-DD); requires --end-date"`
	EndDate    string `long:"end-date" env:"END_DATE" description:"Inclusive window end (YYYY-MM-DD); requires --start-date"`

	// Transport configuration
	BaseURL    string `long:"base-url" env:"BASE_URL" default:"https://store.steampowered.com" description:"Provider base URL"`
	UserAgent  string `long:"user-agent" env:"USER_AGENT" default:"review-harvest/1.0" description:"User agent string for HTTP requests"`
	Timeout    int    `long:"timeout" env:"TIMEOUT" default:"30" description:"Per-request timeout in seconds"`
	MaxRetries int    `long:"max-retries" env:"MAX_RETRIES" default:"5" description:"Attempt budget per request"`
	RetryDelay int    `long:"retry-delay" env:"RETRY_DELAY" default:"1" description:"Fixed delay between attempts in seconds"`

	// Page cache (optional)
	RedisURL string `long:"redis-url" env:"REDIS_URL" description:"Redis address for the page cache (e.g. localhost:6379); cache disabled when empty"`
	CacheTTL int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Page cache TTL in seconds"`

	// Output
	JSONOut   string `long:"json-out" env:"JSON_OUT" description:"Path for JSON output (disabled when empty)"`
	SqliteOut string `long:"sqlite-out" env:"SQLITE_OUT" description:"Path for sqlite output (disabled when empty)"`

	// Logging
	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
	Pretty   bool   `long:"pretty" env:"PRETTY_LOGS" description:"Human-readable console logs instead of JSON"`
}

func main() {
	var cfg AppConfig
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.Pretty,
	})

	if err := run(context.Background(), cfg); err != nil {
		logger.Error().Err(err).Msg("Harvest failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg AppConfig) error {
	if cfg.JSONOut == "" && cfg.SqliteOut == "" {
		return fmt.Errorf("at least one of --json-out or --sqlite-out is required")
	}

	startDate, endDate, err := parseWindow(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return err
	}

	var cache *pagecache.Manager
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisURL, err)
		}
		cache = pagecache.NewManager(redisClient, time.Duration(cfg.CacheTTL)*time.Second)
	}

	harvester, err := steam.New(steam.Config{
		AppID:      cfg.AppID,
		Franchise:  cfg.Franchise,
		GameName:   cfg.GameName,
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    time.Duration(cfg.Timeout) * time.Second,
		StartDate:  startDate,
		EndDate:    endDate,
		MaxRecords: cfg.MaxRecords,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: time.Duration(cfg.RetryDelay) * time.Second,
		Cache:      cache,
	})
	if err != nil {
		return fmt.Errorf("create harvester: %w", err)
	}

	result, err := harvester.Run(ctx)
	if err != nil {
		return err
	}

	reviews := result.Reviews()

	if cfg.JSONOut != "" {
		if err := sink.WriteFile(cfg.JSONOut, reviews); err != nil {
			return err
		}
	}

	if cfg.SqliteOut != "" {
		store, err := sink.Open(cfg.SqliteOut)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, reviews); err != nil {
			return err
		}
	}

	return nil
}

// parseWindow validates the optional date window. Both bounds must be
// given together; a lone bound is a configuration error rather than a
// silently ignored one.
func parseWindow(start, end string) (*time.Time, *time.Time, error) {
	if start == "" && end == "" {
		return nil, nil, nil
	}
	if start == "" || end == "" {
		return nil, nil, fmt.Errorf("--start-date and --end-date must be set together")
	}

	startT, err := time.Parse(review.DateLayout, start)
	if err != nil {
		return nil, nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	endT, err := time.Parse(review.DateLayout, end)
	if err != nil {
		return nil, nil, fmt.Errorf("parse end date %q: %w", end, err)
	}
	if endT.Before(startT) {
		return nil, nil, fmt.Errorf("end date %s precedes start date %s", end, start)
	}

	// The window is inclusive of the whole end day.
	endT = endT.Add(24*time.Hour - time.Second)
	return &startT, &endT, nil
}
