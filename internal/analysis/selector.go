package analysis

import (
	"math"
	"sort"

	"dockscreen/domain/core"
	"dockscreen/domain/score"
)

// Selector applies a significance threshold to annotated records and
// packages the surviving subset for reporting.
type Selector struct{}

// NewSelector creates a significance selector
func NewSelector() *Selector {
	return &Selector{}
}

// Significant reports whether z passes the two-tailed threshold test.
//
// The test direction follows the threshold sign: a negative threshold selects
// the lower tail (z <= t, the conventional case for scores where lower is
// better), a non-negative threshold selects the upper tail (z >= t). The
// boundary is inclusive either way: a record sitting exactly on the threshold
// counts as a hit.
func Significant(z, threshold float64) bool {
	if threshold < 0 {
		return z <= threshold
	}
	return z >= threshold
}

// Select filters the annotated records through the significance predicate and
// returns the ranked result set.
//
// Ordering is most significant first: z ascending for a negative threshold,
// descending for a non-negative one, with exact z ties broken by identifier
// ascending so repeated runs produce identical output. Every finite threshold
// is legal; NaN or infinite thresholds are rejected. An empty selection is a
// valid outcome, not an error.
func (s *Selector) Select(records []score.Record, threshold float64) (score.SelectionResult, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return score.SelectionResult{}, core.NewInvalidThresholdError(threshold)
	}

	selected := make([]score.Record, 0)
	for _, r := range records {
		if Significant(r.ZScore, threshold) {
			selected = append(selected, r)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.ZScore != b.ZScore {
			if threshold < 0 {
				return a.ZScore < b.ZScore
			}
			return a.ZScore > b.ZScore
		}
		return a.Identifier < b.Identifier
	})

	result := score.SelectionResult{
		Threshold:  threshold,
		Selected:   selected,
		TotalCount: len(records),
	}
	if len(selected) > 0 {
		result.Best = &selected[0]
	}
	return result, nil
}
