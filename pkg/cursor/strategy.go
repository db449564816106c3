package cursor

import "fmt"

// KeyStrategy is the default Strategy: top-level JSON keys for the
// cursor and the record array, and a query parameter for injection.
// Adapters with more exotic response shapes implement Strategy directly.
type KeyStrategy struct {
	// CursorKey is the response key holding the continuation token.
	CursorKey string

	// DataKey is the response key holding the record array. A page
	// without the key is an empty page, not an error.
	DataKey string

	// CursorParam is the query parameter the cursor is sent back under.
	CursorParam string

	// MaxRecords stops pagination once the accumulator reaches this
	// size. Zero means no record-count stop condition.
	MaxRecords int
}

// ExtractPage implements Strategy.
func (s KeyStrategy) ExtractPage(page map[string]any) ([]RawRecord, error) {
	raw, exists := page[s.DataKey]
	if !exists || raw == nil {
		return nil, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("response key %q is %T, want array", s.DataKey, raw)
	}

	records := make([]RawRecord, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d under %q is %T, want object", i, s.DataKey, item)
		}
		records = append(records, RawRecord(rec))
	}
	return records, nil
}

// ExtractCursor implements Strategy. A missing key, a non-string value,
// or an empty string all read as "no further pages".
func (s KeyStrategy) ExtractCursor(page map[string]any) (string, bool) {
	raw, exists := page[s.CursorKey]
	if !exists {
		return "", false
	}
	cursor, ok := raw.(string)
	if !ok || cursor == "" {
		return "", false
	}
	return cursor, true
}

// InjectCursor implements Strategy.
func (s KeyStrategy) InjectCursor(cursor string, req *Request) {
	req.Query.Set(s.CursorParam, cursor)
}

// Done implements Strategy.
func (s KeyStrategy) Done(accumulated []RawRecord) bool {
	return s.MaxRecords > 0 && len(accumulated) >= s.MaxRecords
}
