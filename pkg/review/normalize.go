package review

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reviewkit/review-harvest/pkg/cursor"
	"github.com/reviewkit/review-harvest/pkg/identity"
	"github.com/reviewkit/review-harvest/pkg/logging"
)

// DefaultMaxRecords is the default cap on normalized output size.
const DefaultMaxRecords = 5000

// minPlausibleYear is the lower bound for review timestamps. No
// supported provider carried user reviews before 2002, so anything
// earlier (a zero or garbage epoch value, typically) is malformed.
const minPlausibleYear = 2002

var (
	harvestDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_duplicate_records_total",
		Help: "Raw records dropped because their derived ID was already seen",
	})

	harvestNormalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_normalized_records_total",
		Help: "Canonical records emitted by normalization",
	})
)

// Normalizer maps raw records into canonical reviews, dropping
// duplicates and enforcing the output cap.
type Normalizer struct {
	// Mapper supplies the adapter-specific field mapping.
	Mapper Mapper

	// Franchise, GameName, Source are stamped verbatim onto every
	// canonical record of the harvest.
	Franchise string
	GameName  string
	Source    string

	// MaxRecords caps the output size post-dedup. Zero or negative
	// means DefaultMaxRecords.
	MaxRecords int
}

// Normalize converts raw records in input order. The first occurrence of
// a derived ID wins; later duplicates are dropped silently. Conversion
// stops once MaxRecords canonical records have been emitted, even if raw
// records remain. Any malformed record aborts with an error and no
// partial output.
func (n Normalizer) Normalize(raw []cursor.RawRecord) ([]Review, error) {
	logger := logging.NewLogger("normalize")

	maxRecords := n.MaxRecords
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}

	seen := make(map[string]struct{}, len(raw))
	reviews := make([]Review, 0, min(len(raw), maxRecords))
	duplicates := 0

	for _, rec := range raw {
		if len(reviews) >= maxRecords {
			break
		}

		mapped, err := n.Mapper.Map(rec)
		if err != nil {
			return nil, err
		}
		if mapped.RecordKey == "" {
			return nil, &MalformedRecordError{Field: "record key", Reason: "empty"}
		}
		if mapped.UserKey == "" {
			return nil, &MalformedRecordError{Field: "user key", Reason: "empty"}
		}
		if mapped.Timestamp.IsZero() {
			return nil, &MalformedRecordError{Field: "timestamp", Reason: "missing"}
		}
		if year := mapped.Timestamp.UTC().Year(); year < minPlausibleYear || year > time.Now().UTC().Year()+1 {
			return nil, &MalformedRecordError{Field: "timestamp", Reason: fmt.Sprintf("year %d outside plausible range", year)}
		}
		if mapped.Hours < 0 || mapped.Comments < 0 || mapped.Helpful < 0 || mapped.Funny < 0 {
			return nil, &MalformedRecordError{Field: "counters", Reason: "negative value"}
		}

		id := identity.RecordID(mapped.RecordKey)
		if _, dup := seen[id]; dup {
			duplicates++
			harvestDuplicatesTotal.Inc()
			continue
		}
		seen[id] = struct{}{}

		reviews = append(reviews, Review{
			ID:          id,
			Author:      identity.AuthorID(mapped.UserKey),
			Date:        mapped.Timestamp.UTC().Format(DateLayout),
			Hours:       mapped.Hours,
			Content:     mapped.Content,
			Comments:    mapped.Comments,
			Source:      n.Source,
			Helpful:     mapped.Helpful,
			Funny:       mapped.Funny,
			Recommended: mapped.Recommended,
			Franchise:   n.Franchise,
			GameName:    n.GameName,
		})
	}

	harvestNormalizedTotal.Add(float64(len(reviews)))
	logger.Info().
		Int("raw", len(raw)).
		Int("emitted", len(reviews)).
		Int("duplicates", duplicates).
		Int("cap", maxRecords).
		Msg("Normalization complete")

	return reviews, nil
}
