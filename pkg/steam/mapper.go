package steam

import (
	"fmt"
	"math"
	"time"

	"github.com/reviewkit/review-harvest/pkg/cursor"
	"github.com/reviewkit/review-harvest/pkg/review"
)

// Mapper converts one raw Steam appreviews record into the canonical
// Mapped form. Steam reports playtime in minutes; hours are floored to
// keep the canonical field a whole number.
type Mapper struct{}

// Map implements review.Mapper.
func (Mapper) Map(raw cursor.RawRecord) (review.Mapped, error) {
	recordKey, err := stringField(raw, "recommendationid")
	if err != nil {
		return review.Mapped{}, err
	}

	author, ok := raw["author"].(map[string]any)
	if !ok {
		return review.Mapped{}, &review.MalformedRecordError{Field: "author", Reason: "missing or not an object"}
	}
	userKey, err := stringField(author, "steamid")
	if err != nil {
		return review.Mapped{}, err
	}

	created, err := intField(raw, "timestamp_created")
	if err != nil {
		return review.Mapped{}, err
	}

	playtimeMinutes, err := intField(author, "playtime_forever")
	if err != nil {
		return review.Mapped{}, err
	}

	content, err := stringField(raw, "review")
	if err != nil {
		return review.Mapped{}, err
	}

	comments, err := intField(raw, "comment_count")
	if err != nil {
		return review.Mapped{}, err
	}
	helpful, err := intField(raw, "votes_up")
	if err != nil {
		return review.Mapped{}, err
	}
	funny, err := intField(raw, "votes_funny")
	if err != nil {
		return review.Mapped{}, err
	}

	recommended, ok := raw["voted_up"].(bool)
	if !ok {
		return review.Mapped{}, &review.MalformedRecordError{Field: "voted_up", Reason: "missing or not a boolean"}
	}

	return review.Mapped{
		RecordKey:   recordKey,
		UserKey:     userKey,
		Timestamp:   time.Unix(created, 0).UTC(),
		Hours:       int(playtimeMinutes / 60),
		Content:     content,
		Comments:    int(comments),
		Helpful:     int(helpful),
		Funny:       int(funny),
		Recommended: recommended,
	}, nil
}

// CreatedAt is the timestamp selector for the date-window filter. It
// reads the raw provider timestamp at full precision.
func CreatedAt(raw cursor.RawRecord) (time.Time, error) {
	created, err := intField(raw, "timestamp_created")
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(created, 0).UTC(), nil
}

func stringField(obj map[string]any, field string) (string, error) {
	raw, exists := obj[field]
	if !exists {
		return "", &review.MalformedRecordError{Field: field, Reason: "missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &review.MalformedRecordError{Field: field, Reason: fmt.Sprintf("%T, want string", raw)}
	}
	return s, nil
}

func intField(obj map[string]any, field string) (int64, error) {
	raw, exists := obj[field]
	if !exists {
		return 0, &review.MalformedRecordError{Field: field, Reason: "missing"}
	}
	// encoding/json decodes numbers into float64.
	f, ok := raw.(float64)
	if !ok {
		return 0, &review.MalformedRecordError{Field: field, Reason: fmt.Sprintf("%T, want number", raw)}
	}
	if f != math.Trunc(f) {
		return 0, &review.MalformedRecordError{Field: field, Reason: "not an integer"}
	}
	return int64(f), nil
}
