package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/reviewkit/review-harvest/pkg/logging"
	"github.com/reviewkit/review-harvest/pkg/review"
)

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	id          TEXT PRIMARY KEY,
	author      TEXT NOT NULL,
	date        TEXT NOT NULL,
	hours       INTEGER NOT NULL,
	content     TEXT NOT NULL,
	comments    INTEGER NOT NULL,
	source      TEXT NOT NULL,
	helpful     INTEGER NOT NULL,
	funny       INTEGER NOT NULL,
	recommended INTEGER NOT NULL,
	franchise   TEXT NOT NULL,
	game_name   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_date ON reviews (date, id);
`

// Store is a sqlite-backed sink for canonical reviews.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) a sqlite store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logging.NewLogger("sink"),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the collection in a single transaction: either every
// record lands or none do. Re-saving a record with a known id replaces
// it.
func (s *Store) Save(ctx context.Context, reviews []review.Review) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO reviews
			(id, author, date, hours, content, comments, source, helpful, funny, recommended, franchise, game_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reviews {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Author, r.Date, r.Hours, r.Content, r.Comments,
			r.Source, r.Helpful, r.Funny, r.Recommended, r.Franchise, r.GameName,
		); err != nil {
			return fmt.Errorf("insert review %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info().Int("reviews", len(reviews)).Msg("Saved reviews to sqlite")
	return nil
}

// Count returns the number of stored reviews.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

// List returns all stored reviews ordered by (date, id).
func (s *Store) List(ctx context.Context) ([]review.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author, date, hours, content, comments, source, helpful, funny, recommended, franchise, game_name
		FROM reviews ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []review.Review
	for rows.Next() {
		var r review.Review
		if err := rows.Scan(
			&r.ID, &r.Author, &r.Date, &r.Hours, &r.Content, &r.Comments,
			&r.Source, &r.Helpful, &r.Funny, &r.Recommended, &r.Franchise, &r.GameName,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
