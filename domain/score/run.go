package score

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary is the persisted record of one screening run.
type RunSummary struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SourceFile     string    `json:"source_file" db:"source_file"`
	Threshold      float64   `json:"threshold" db:"threshold"`
	TotalCount     int       `json:"total_count" db:"total_count"`
	SelectedCount  int       `json:"selected_count" db:"selected_count"`
	Mean           float64   `json:"mean" db:"mean"`
	StdDev         float64   `json:"std_dev" db:"std_dev"`
	BestIdentifier string    `json:"best_identifier,omitempty" db:"best_identifier"`
	BestRawScore   float64   `json:"best_raw_score" db:"best_raw_score"`
	BestZScore     float64   `json:"best_z_score" db:"best_z_score"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// NewRunSummary builds the persisted summary for a completed selection.
func NewRunSummary(sourceFile string, result SelectionResult, stats DistributionStats) *RunSummary {
	s := &RunSummary{
		ID:            uuid.New(),
		SourceFile:    sourceFile,
		Threshold:     result.Threshold,
		TotalCount:    result.TotalCount,
		SelectedCount: len(result.Selected),
		Mean:          stats.Mean,
		StdDev:        stats.StdDev,
		CreatedAt:     time.Now().UTC(),
	}
	if result.Best != nil {
		s.BestIdentifier = result.Best.Identifier
		s.BestRawScore = result.Best.RawScore
		s.BestZScore = result.Best.ZScore
	}
	return s
}
