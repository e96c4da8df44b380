package app

import (
	"context"
	"time"

	"dockscreen/domain/score"
	"dockscreen/internal"
	"dockscreen/internal/analysis"
	apperrors "dockscreen/internal/errors"
	"dockscreen/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ScreeningService runs the full pipeline: read the batch, compute the
// distribution, annotate z-scores, select the significant tail, then fan the
// result out to the configured collaborators.
type ScreeningService struct {
	engine   *analysis.Engine
	selector *analysis.Selector
	hits     ports.HitWriter
	report   ports.ReportRenderer
	plots    ports.PlotRenderer
	runs     ports.RunRepository // nil disables run history
	logger   *internal.Logger
}

// NewScreeningService wires the pipeline. Any collaborator may be nil; the
// matching output is simply skipped.
func NewScreeningService(hits ports.HitWriter, report ports.ReportRenderer, plots ports.PlotRenderer, runs ports.RunRepository) *ScreeningService {
	return &ScreeningService{
		engine:   analysis.NewEngine(),
		selector: analysis.NewSelector(),
		hits:     hits,
		report:   report,
		plots:    plots,
		runs:     runs,
		logger:   internal.NewDefaultLogger("ScreeningService"),
	}
}

// RunRequest defines one screening analysis. Empty output paths disable the
// corresponding artifact.
type RunRequest struct {
	Reader     ports.RecordReader
	SourceName string
	Threshold  float64

	HitsPath         string
	ReportPath       string
	CurvePath        string
	DistributionPath string
}

// RunOutput is the in-memory result of a completed run.
type RunOutput struct {
	Result    score.SelectionResult
	Stats     score.DistributionStats
	Records   []score.Record // full annotated batch, input order
	RunID     uuid.UUID      // zero when run history is disabled
	RuntimeMs int64
}

// Run executes the pipeline. The classification itself is sequential and
// deterministic; only the output artifacts are produced concurrently. The
// first failure aborts the run - no partial SelectionResult is ever returned.
func (s *ScreeningService) Run(ctx context.Context, req RunRequest) (*RunOutput, error) {
	startTime := time.Now()

	records, err := req.Reader.ReadRecords()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}

	stats, err := s.engine.ComputeStats(records)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	s.engine.Annotate(records, stats)

	result, err := s.selector.Select(records, req.Threshold)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}

	s.logger.Info("%s: %d of %d compounds pass threshold %.3f",
		req.SourceName, len(result.Selected), result.TotalCount, req.Threshold)
	s.logger.Debug("%s: mean %.6f, population stddev %.6f", req.SourceName, stats.Mean, stats.StdDev)

	output := &RunOutput{Result: result, Stats: stats, Records: records}

	g, gctx := errgroup.WithContext(ctx)

	if s.hits != nil && req.HitsPath != "" {
		g.Go(func() error {
			return apperrors.WithCode(apperrors.CodeIO, s.hits.WriteHits(req.HitsPath, result))
		})
	}
	if s.report != nil && req.ReportPath != "" {
		g.Go(func() error {
			return apperrors.WithCode(apperrors.CodeRender, s.report.RenderReport(req.ReportPath, result, stats))
		})
	}
	if s.plots != nil && req.CurvePath != "" {
		g.Go(func() error {
			return apperrors.WithCode(apperrors.CodeRender, s.plots.RenderThresholdCurve(req.CurvePath, req.Threshold))
		})
	}
	if s.plots != nil && req.DistributionPath != "" {
		g.Go(func() error {
			return apperrors.WithCode(apperrors.CodeRender, s.plots.RenderScoreDistribution(req.DistributionPath, records, stats, result.Best))
		})
	}
	if s.runs != nil {
		summary := score.NewRunSummary(req.SourceName, result, stats)
		output.RunID = summary.ID
		g.Go(func() error {
			return apperrors.WithCode(apperrors.CodeStorage, s.runs.SaveRun(gctx, summary))
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrapf(err, "screening run for %s failed", req.SourceName)
	}

	output.RuntimeMs = time.Since(startTime).Milliseconds()
	return output, nil
}
