package cursor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reviewkit/review-harvest/pkg/client"
	"github.com/reviewkit/review-harvest/pkg/logging"
)

var (
	harvestPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_pages_total",
		Help: "Total pages fetched by endpoint",
	}, []string{"endpoint"})

	harvestRawRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_raw_records_total",
		Help: "Total raw records accumulated by endpoint",
	}, []string{"endpoint"})
)

// RawRecord is an opaque provider record as decoded from a response page.
// It lives from the page fetch until normalization consumes it.
type RawRecord map[string]any

// Request describes one outgoing paginated request. The engine clones
// the query before injecting a cursor, so the caller's values are never
// mutated.
type Request struct {
	Endpoint string
	JSONBody any
	Query    url.Values
}

// Executor is the capability the engine needs: send one GET, return the
// parsed outcome or a fatal error. client.Executor satisfies it.
type Executor interface {
	Execute(ctx context.Context, endpoint string, jsonBody any, query url.Values) (*client.Response, error)
}

// Strategy supplies the source-specific extraction logic.
type Strategy interface {
	// ExtractPage returns the raw records of one parsed response page,
	// in page order.
	ExtractPage(page map[string]any) ([]RawRecord, error)

	// ExtractCursor returns the continuation token of a page. ok=false
	// (token absent) is the normal termination signal, not an error.
	ExtractCursor(page map[string]any) (cursor string, ok bool)

	// InjectCursor merges a held cursor into the outgoing request.
	InjectCursor(cursor string, req *Request)

	// Done reports whether pagination should stop given the records
	// accumulated so far. It is consulted before every request; a
	// pre-satisfied predicate means zero requests are issued.
	Done(accumulated []RawRecord) bool
}

// FollowCursor fetches pages until the strategy reports completion, the
// cursor disappears, or the cursor stops advancing. It returns every raw
// record accumulated, in fetch order.
func FollowCursor(ctx context.Context, exec Executor, req Request, initialCursor string, strat Strategy) ([]RawRecord, error) {
	logger := logging.NewLogger("cursor")
	start := time.Now()

	var records []RawRecord
	cursor := initialCursor
	pages := 0

	for {
		// Cancellation is honored at the top of every iteration.
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("pagination cancelled: %w", ctx.Err())
		default:
		}

		if strat.Done(records) {
			break
		}

		outgoing := Request{
			Endpoint: req.Endpoint,
			JSONBody: req.JSONBody,
			Query:    cloneQuery(req.Query),
		}
		if cursor != "" {
			strat.InjectCursor(cursor, &outgoing)
		}

		resp, err := exec.Execute(ctx, outgoing.Endpoint, outgoing.JSONBody, outgoing.Query)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, outgoing.Endpoint)
		}

		var page map[string]any
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("parse page from %s: %w", outgoing.Endpoint, err)
		}

		pageRecords, err := strat.ExtractPage(page)
		if err != nil {
			return nil, fmt.Errorf("extract page from %s: %w", outgoing.Endpoint, err)
		}
		records = append(records, pageRecords...)
		pages++

		harvestPagesTotal.WithLabelValues(req.Endpoint).Inc()
		harvestRawRecordsTotal.WithLabelValues(req.Endpoint).Add(float64(len(pageRecords)))

		logger.Debug().
			Str("endpoint", req.Endpoint).
			Int("page", pages).
			Int("page_records", len(pageRecords)).
			Int("total_records", len(records)).
			Msg("Page fetched")

		next, ok := strat.ExtractCursor(page)
		if !ok {
			// Token absent: normal termination.
			break
		}
		if next == cursor {
			// Non-advancing cursor: terminate rather than loop forever.
			logger.Debug().
				Str("endpoint", req.Endpoint).
				Str("cursor", next).
				Msg("Cursor did not advance, stopping")
			break
		}
		cursor = next
	}

	logger.Info().
		Str("endpoint", req.Endpoint).
		Int("pages", pages).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return records, nil
}

func cloneQuery(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
