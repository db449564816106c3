// Package review holds the canonical review schema and the pipeline
// stages that turn raw provider records into an ordered canonical
// collection: date-window filtering, normalization with deduplication,
// and deterministic sorting.
package review

import (
	"fmt"
	"time"

	"github.com/reviewkit/review-harvest/pkg/cursor"
)

// DateLayout is the canonical 10-character date format.
const DateLayout = "2006-01-02"

// Review is the canonical output unit. Entries are immutable once built;
// sorting reorders the collection, never the entries.
type Review struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	Hours       int    `json:"hours"`
	Content     string `json:"content"`
	Comments    int    `json:"comments"`
	Source      string `json:"source"`
	Helpful     int    `json:"helpful"`
	Funny       int    `json:"funny"`
	Recommended bool   `json:"recommended"`
	Franchise   string `json:"franchise"`
	GameName    string `json:"gameName"`
}

// Mapped is a raw provider record reduced to the fields normalization
// needs. Adapters produce it; the natural keys are never emitted, only
// fed to identity derivation.
type Mapped struct {
	RecordKey   string    // provider's natural key for the record
	UserKey     string    // provider's natural key for the author
	Timestamp   time.Time // provider timestamp at full precision
	Hours       int
	Content     string
	Comments    int
	Helpful     int
	Funny       int
	Recommended bool
}

// Mapper converts one raw record into the adapter-independent Mapped
// form. A record missing an expected field or carrying a wrong type must
// be reported as a MalformedRecordError; the harvest aborts rather than
// emitting a partially populated canonical record.
type Mapper interface {
	Map(raw cursor.RawRecord) (Mapped, error)
}

// MalformedRecordError reports a raw record that cannot be normalized.
type MalformedRecordError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: field %q: %s", e.Field, e.Reason)
}
