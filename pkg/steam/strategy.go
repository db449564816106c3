package steam

import (
	"fmt"

	"github.com/reviewkit/review-harvest/pkg/cursor"
)

// strategy is the Steam appreviews pagination strategy: standard
// cursor/reviews keys, plus a check on the endpoint's own success flag.
type strategy struct {
	cursor.KeyStrategy
}

func newStrategy(maxRecords int) strategy {
	return strategy{cursor.KeyStrategy{
		CursorKey:   "cursor",
		DataKey:     "reviews",
		CursorParam: "cursor",
		MaxRecords:  maxRecords,
	}}
}

// ExtractPage overrides the default to reject pages the provider itself
// marks as failed (success != 1) before any records are read.
func (s strategy) ExtractPage(page map[string]any) ([]cursor.RawRecord, error) {
	success, ok := page["success"].(float64)
	if !ok || success != 1 {
		return nil, fmt.Errorf("provider reported unsuccessful page (success=%v)", page["success"])
	}
	return s.KeyStrategy.ExtractPage(page)
}
