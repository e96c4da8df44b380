package analysis

import (
	"math"
	"runtime"

	"dockscreen/domain/core"
	"dockscreen/domain/score"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// Batches below this size are annotated on the calling goroutine; the fan-out
// overhead only pays off on large screening libraries.
const parallelAnnotateMin = 50000

// Engine computes distribution statistics over a full score batch and
// derives a z-score for every record.
type Engine struct{}

// NewEngine creates a statistics engine
func NewEngine() *Engine {
	return &Engine{}
}

// ComputeStats computes the mean and population standard deviation of the
// batch. The batch is rejected as a whole if it is empty or contains any
// non-finite raw score; no value is ever silently coerced.
func (e *Engine) ComputeStats(records []score.Record) (score.DistributionStats, error) {
	if len(records) == 0 {
		return score.DistributionStats{}, core.ErrInsufficientData
	}

	data := make([]float64, len(records))
	for i, r := range records {
		if math.IsNaN(r.RawScore) || math.IsInf(r.RawScore, 0) {
			return score.DistributionStats{}, core.NewInvalidRecordError(r.Identifier, "raw score is not finite")
		}
		data[i] = r.RawScore
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return score.DistributionStats{}, err
	}

	// Population variant (divisor N): the run is the whole population, not a
	// sample. Two-pass under the hood, so no catastrophic cancellation on
	// tightly clustered scores.
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return score.DistributionStats{}, err
	}

	return score.DistributionStats{
		Mean:   mean,
		StdDev: stdDev,
		Count:  len(records),
	}, nil
}

// ComputeZScore returns (x - mean) / stdDev, or 0 when the distribution has
// zero spread (all scores identical, including the N=1 case). The zero-spread
// branch is explicit so the degenerate batch reports z = 0 everywhere instead
// of dividing by zero.
func ComputeZScore(rawScore float64, st score.DistributionStats) float64 {
	if st.StdDev == 0 {
		return 0
	}
	return (rawScore - st.Mean) / st.StdDev
}

// Annotate populates ZScore on every record in place. No record is skipped or
// reordered. Large batches are split across workers; each record's z-score
// depends only on its own raw score and the shared stats, so the result is
// identical regardless of worker count.
func (e *Engine) Annotate(records []score.Record, st score.DistributionStats) {
	if len(records) < parallelAnnotateMin {
		for i := range records {
			records[i].ZScore = ComputeZScore(records[i].RawScore, st)
		}
		return
	}

	var g errgroup.Group
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(records) + workers - 1) / workers
	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}
		part := records[start:end]
		g.Go(func() error {
			for i := range part {
				part[i].ZScore = ComputeZScore(part[i].RawScore, st)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail
}
