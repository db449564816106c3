package review

import (
	"errors"
	"testing"
	"time"

	"github.com/reviewkit/review-harvest/pkg/cursor"
)

func unixSelector(raw cursor.RawRecord) (time.Time, error) {
	ts, ok := raw["timestamp"].(float64)
	if !ok {
		return time.Time{}, errors.New("timestamp missing")
	}
	return time.Unix(int64(ts), 0).UTC(), nil
}

func tsRecord(id string, ts int64) cursor.RawRecord {
	return cursor.RawRecord{"id": id, "timestamp": float64(ts)}
}

func TestFilterWindowInclusiveBounds(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	records := []cursor.RawRecord{
		tsRecord("before", start.Add(-time.Second).Unix()),
		tsRecord("at-start", start.Unix()),
		tsRecord("inside", start.AddDate(0, 0, 15).Unix()),
		tsRecord("at-end", end.Unix()),
		tsRecord("after", end.Add(time.Second).Unix()),
	}

	filtered, err := FilterWindow(records, start, end, unixSelector)
	if err != nil {
		t.Fatalf("FilterWindow failed: %v", err)
	}

	want := []string{"at-start", "inside", "at-end"}
	if len(filtered) != len(want) {
		t.Fatalf("len(filtered) = %d, want %d", len(filtered), len(want))
	}
	for i, w := range want {
		if got := filtered[i]["id"]; got != w {
			t.Errorf("filtered[%d] = %v, want %q", i, got, w)
		}
	}
}

func TestFilterWindowFullTimestampPrecision(t *testing.T) {
	// A record at 23:30 on the end date must survive a window whose end
	// is the last second of that day; truncating to YYYY-MM-DD before
	// comparison would be an off-by-one-day hazard the filter avoids by
	// comparing raw timestamps.
	end := time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC)
	start := end.AddDate(0, 0, -7)

	lateEvening := time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)
	records := []cursor.RawRecord{tsRecord("late", lateEvening.Unix())}

	filtered, err := FilterWindow(records, start, end, unixSelector)
	if err != nil {
		t.Fatalf("FilterWindow failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Errorf("Record at %v excluded from window ending %v", lateEvening, end)
	}
}

func TestFilterWindowSelectorErrorPropagates(t *testing.T) {
	records := []cursor.RawRecord{{"id": "no-ts"}}

	_, err := FilterWindow(records, time.Now().Add(-time.Hour), time.Now(), unixSelector)
	if err == nil {
		t.Fatal("Expected selector error to propagate, got nil")
	}
}

func TestFilterWindowEmptyInput(t *testing.T) {
	filtered, err := FilterWindow(nil, time.Now().Add(-time.Hour), time.Now(), unixSelector)
	if err != nil {
		t.Fatalf("FilterWindow failed: %v", err)
	}
	if len(filtered) != 0 {
		t.Errorf("len(filtered) = %d, want 0", len(filtered))
	}
}
