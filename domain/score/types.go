package score

// DefaultThreshold is the two-tailed significance cutoff applied when the
// caller does not configure one. It corresponds to p < 0.05 on the lower
// tail of the standard normal distribution.
const DefaultThreshold = -1.960

// Record represents one scored compound from a screening run.
//
// Identifier is an opaque label, unique within a run, used for output and as
// the tie-break sort key when z-scores collide exactly. RawScore must be
// finite; a NaN or infinite score is a data error and rejects the whole
// batch. ZScore is derived, never read from input, and is written exactly
// once during the statistics pass.
type Record struct {
	Identifier string  `json:"identifier"`
	RawScore   float64 `json:"raw_score"`
	ZScore     float64 `json:"z_score"`
}

// DistributionStats summarizes the full score set of a run.
//
// StdDev is the population standard deviation (divisor N, not N-1): the run
// is the entire population being characterized, not a sample from a larger
// one. Computed once before any filtering and immutable afterward.
type DistributionStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// SelectionResult is the output of the classification pipeline.
//
// Selected holds exactly the records passing the significance predicate for
// Threshold, ordered most significant first with identifier ties resolved
// ascending. Best points at Selected[0], or is nil when no record qualified;
// an empty selection is a valid, reportable outcome.
type SelectionResult struct {
	Threshold  float64  `json:"threshold"`
	Selected   []Record `json:"selected"`
	TotalCount int      `json:"total_count"`
	Best       *Record  `json:"best,omitempty"`
}
