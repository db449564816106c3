package review

import (
	"time"

	"github.com/reviewkit/review-harvest/pkg/cursor"
)

// TimestampSelector extracts the provider timestamp from a raw record.
type TimestampSelector func(raw cursor.RawRecord) (time.Time, error)

// FilterWindow keeps the records whose provider timestamp falls inside
// the inclusive [startInclusive, endInclusive] window.
//
// The comparison runs on the raw timestamp at full precision, before any
// date-string truncation, so records near a day boundary are never
// misclassified by formatting.
func FilterWindow(records []cursor.RawRecord, startInclusive, endInclusive time.Time, selector TimestampSelector) ([]cursor.RawRecord, error) {
	filtered := make([]cursor.RawRecord, 0, len(records))

	for _, rec := range records {
		ts, err := selector(rec)
		if err != nil {
			return nil, err
		}
		if ts.Before(startInclusive) || ts.After(endInclusive) {
			continue
		}
		filtered = append(filtered, rec)
	}

	return filtered, nil
}
