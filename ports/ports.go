package ports

import (
	"context"

	"dockscreen/domain/score"

	"github.com/google/uuid"
)

// RecordReader supplies the scored batch from a tabular source. Readers are
// responsible for rejecting malformed rows; the core never sees a non-finite
// raw score from a well-behaved reader.
type RecordReader interface {
	ReadRecords() ([]score.Record, error)
}

// HitWriter writes the selected subset back to a tabular file, one row per
// record with at least identifier, raw score and z-score.
type HitWriter interface {
	WriteHits(path string, result score.SelectionResult) error
}

// ReportRenderer renders the selection into a document (PDF table).
type ReportRenderer interface {
	RenderReport(path string, result score.SelectionResult, stats score.DistributionStats) error
}

// PlotRenderer renders the two distribution charts.
type PlotRenderer interface {
	// RenderThresholdCurve draws the standard normal reference curve with the
	// threshold marked.
	RenderThresholdCurve(path string, threshold float64) error
	// RenderScoreDistribution draws the batch's score distribution with the
	// top hit annotated. Best may be nil when the selection is empty.
	RenderScoreDistribution(path string, records []score.Record, stats score.DistributionStats, best *score.Record) error
}

// RunRepository persists run summaries for later inspection.
type RunRepository interface {
	SaveRun(ctx context.Context, run *score.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]score.RunSummary, error)
	GetRun(ctx context.Context, id uuid.UUID) (*score.RunSummary, error)
}
