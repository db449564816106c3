// Package sink persists the canonical collection. Sinks are external
// collaborators: the pipeline's correctness guarantees end at the
// ordered in-memory collection handed to them.
package sink

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reviewkit/review-harvest/pkg/logging"
	"github.com/reviewkit/review-harvest/pkg/review"
)

// WriteFile serializes the collection as human-readable indented JSON.
// The whole document is marshalled before the file is touched, so a
// marshalling failure leaves no partial file behind.
func WriteFile(path string, reviews []review.Review) error {
	data, err := json.MarshalIndent(reviews, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger := logging.NewLogger("sink")
	logger.Info().
		Str("path", path).
		Int("reviews", len(reviews)).
		Msg("Wrote JSON output")

	return nil
}

// ReadFile loads a collection previously written by WriteFile.
func ReadFile(path string) ([]review.Review, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var reviews []review.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return reviews, nil
}
