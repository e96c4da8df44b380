package plot

import (
	"fmt"
	"io"
	"log"
	"os"

	"dockscreen/domain/score"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	curveSamples = 200
	lineWidth    = 2.5
	zCurveSpan   = 5.0 // standard normal is drawn over [-5, 5]
)

// Renderer draws the two distribution charts as standalone HTML files.
type Renderer struct{}

// NewRenderer creates a chart renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderThresholdCurve draws the standard normal reference curve with the
// significance threshold and the center marked.
func (r *Renderer) RenderThresholdCurve(path string, threshold float64) error {
	return renderToFile(path, buildThresholdCurve(threshold))
}

// RenderScoreDistribution draws the normal curve fitted to the batch's mean
// and standard deviation, with the top hit marked. Best may be nil.
func (r *Renderer) RenderScoreDistribution(path string, records []score.Record, stats score.DistributionStats, best *score.Record) error {
	return renderToFile(path, buildScoreDistribution(records, stats, best))
}

func buildThresholdCurve(threshold float64) *charts.Line {
	dist := distuv.UnitNormal

	labels := make([]string, curveSamples)
	curve := make([]opts.LineData, curveSamples)
	marks := make([]opts.LineData, curveSamples)

	thresholdIdx := nearestSampleIndex(-zCurveSpan, zCurveSpan, threshold)
	centerIdx := nearestSampleIndex(-zCurveSpan, zCurveSpan, 0)

	step := 2 * zCurveSpan / float64(curveSamples-1)
	for i := 0; i < curveSamples; i++ {
		x := -zCurveSpan + float64(i)*step
		labels[i] = fmt.Sprintf("%.2f", x)
		curve[i] = opts.LineData{Value: dist.Prob(x)}

		if i == thresholdIdx || i == centerIdx {
			marks[i] = opts.LineData{Value: dist.Prob(x), Symbol: "circle", SymbolSize: 10}
		} else {
			marks[i] = opts.LineData{Value: "-"}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Z-Score Normal Distribution",
			Subtitle: fmt.Sprintf("Significance threshold at z = %.3f", threshold),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Z-Score"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability Density"}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Standard Normal", curve,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth, Color: "blue"}),
	)
	line.AddSeries("Threshold / Center", marks,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 0, Opacity: opts.Float(0)}),
	)

	return line
}

func buildScoreDistribution(records []score.Record, stats score.DistributionStats, best *score.Record) *charts.Line {
	line := charts.NewLine()

	subtitle := "No significant hit to annotate"
	if best != nil {
		subtitle = fmt.Sprintf("Top hit %s at %.2f kcal/mol (z = %.3f)", best.Identifier, best.RawScore, best.ZScore)
	}
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Docking Score Normal Distribution",
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Docking Score (kcal/mol)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability Density"}),
	)

	// Zero spread collapses the curve to a single point; nothing to draw.
	if len(records) == 0 || stats.StdDev == 0 {
		line.SetXAxis([]string{fmt.Sprintf("%.2f", stats.Mean)})
		line.AddSeries("Scores", []opts.LineData{{Value: 1.0, Symbol: "circle"}})
		return line
	}

	minScore, maxScore := records[0].RawScore, records[0].RawScore
	for _, r := range records[1:] {
		if r.RawScore < minScore {
			minScore = r.RawScore
		}
		if r.RawScore > maxScore {
			maxScore = r.RawScore
		}
	}

	dist := distuv.Normal{Mu: stats.Mean, Sigma: stats.StdDev}

	labels := make([]string, curveSamples)
	curve := make([]opts.LineData, curveSamples)
	marks := make([]opts.LineData, curveSamples)

	bestIdx := -1
	if best != nil {
		bestIdx = nearestSampleIndex(minScore, maxScore, best.RawScore)
	}

	step := (maxScore - minScore) / float64(curveSamples-1)
	for i := 0; i < curveSamples; i++ {
		x := minScore + float64(i)*step
		labels[i] = fmt.Sprintf("%.2f", x)
		curve[i] = opts.LineData{Value: dist.Prob(x)}

		if i == bestIdx {
			marks[i] = opts.LineData{Value: dist.Prob(x), Symbol: "circle", SymbolSize: 10}
		} else {
			marks[i] = opts.LineData{Value: "-"}
		}
	}

	line.SetXAxis(labels)
	line.AddSeries("Score Distribution", curve,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth, Color: "green"}),
	)
	if best != nil {
		line.AddSeries("Top Hit", marks,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 0, Opacity: opts.Float(0)}),
		)
	}

	return line
}

// nearestSampleIndex maps value onto the curve's sample grid, clamped to the
// drawn range.
func nearestSampleIndex(lo, hi, value float64) int {
	if hi <= lo {
		return 0
	}
	frac := (value - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return int(frac*float64(curveSamples-1) + 0.5)
}

func renderToFile(path string, chart interface{ Render(w io.Writer) error }) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	log.Printf("[Plot] Wrote chart to %s", path)
	return nil
}
