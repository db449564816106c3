package review

import "sort"

// Sort orders the collection ascending by (date, id) in place and
// returns it. With the fixed YYYY-MM-DD layout, lexical date order and
// calendar order coincide; the id tie-break makes the ordering total
// because ids are unique within a collection. Stable and idempotent.
func Sort(reviews []Review) []Review {
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].Date != reviews[j].Date {
			return reviews[i].Date < reviews[j].Date
		}
		return reviews[i].ID < reviews[j].ID
	})
	return reviews
}
