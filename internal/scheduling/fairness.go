package scheduling

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Candidate is a housekeeper eligible for a slot, with the load used for fairness.
type Candidate struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Load     int       `json:"current_load"`
}

// SortFair orders candidates by ascending load, then case-insensitive name,
// then id so equal inputs always produce the same order.
func SortFair(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Load != b.Load {
			return a.Load < b.Load
		}
		an, bn := strings.ToLower(a.FullName), strings.ToLower(b.FullName)
		if an != bn {
			return an < bn
		}
		return a.ID.String() < b.ID.String()
	})
}

// SelectFair picks the least-loaded candidate. ok is false when there is no
// candidate, which callers treat as the "no one available" outcome.
func SelectFair(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	SortFair(sorted)
	return sorted[0], true
}
