package steam

import "github.com/reviewkit/review-harvest/pkg/review"

// Result is the immutable outcome of one harvest. The franchise and
// game name are captured at construction and exposed only through
// accessors, so nothing after the harvest can desynchronize them from
// the values stamped on the emitted records.
type Result struct {
	franchise string
	gameName  string
	reviews   []review.Review
}

func newResult(franchise, gameName string, reviews []review.Review) *Result {
	return &Result{
		franchise: franchise,
		gameName:  gameName,
		reviews:   reviews,
	}
}

// Franchise returns the franchise captured when the harvest ran.
func (r *Result) Franchise() string { return r.franchise }

// GameName returns the game name captured when the harvest ran.
func (r *Result) GameName() string { return r.gameName }

// Len returns the number of canonical records.
func (r *Result) Len() int { return len(r.reviews) }

// Reviews returns a copy of the ordered canonical collection; mutating
// it cannot affect the harvest outcome.
func (r *Result) Reviews() []review.Review {
	out := make([]review.Review, len(r.reviews))
	copy(out, r.reviews)
	return out
}
