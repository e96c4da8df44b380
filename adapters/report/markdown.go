package report

import (
	"fmt"
	"strings"

	"dockscreen/domain/score"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// The markdown summary only lists the strongest hits; the tabular outputs
// carry the full selection.
const summaryTopHits = 25

// BuildSummary renders a Markdown summary of one screening run.
func BuildSummary(sourceFile string, result score.SelectionResult, stats score.DistributionStats) string {
	var b strings.Builder

	b.WriteString("# Screening Run Summary\n\n")
	fmt.Fprintf(&b, "Source: `%s`\n\n", sourceFile)
	fmt.Fprintf(&b, "- Threshold: %.3f (%s)\n", result.Threshold, tailName(result.Threshold))
	fmt.Fprintf(&b, "- Compounds screened: %d\n", result.TotalCount)
	fmt.Fprintf(&b, "- Significant hits: %d\n", len(result.Selected))
	fmt.Fprintf(&b, "- Score mean: %.4f\n", stats.Mean)
	fmt.Fprintf(&b, "- Score std dev (population): %.4f\n", stats.StdDev)

	if result.Best != nil {
		fmt.Fprintf(&b, "- Top hit: **%s** (score %.4f, z %.6f)\n", result.Best.Identifier, result.Best.RawScore, result.Best.ZScore)
	} else {
		b.WriteString("- Top hit: none (no compound passed the threshold)\n")
	}

	if len(result.Selected) > 0 {
		b.WriteString("\n## Top Hits\n\n")
		b.WriteString("| Compound ID | Docking Score | Z-Score |\n")
		b.WriteString("|---|---|---|\n")
		for i, r := range result.Selected {
			if i >= summaryTopHits {
				fmt.Fprintf(&b, "\n_%d further hits omitted._\n", len(result.Selected)-summaryTopHits)
				break
			}
			fmt.Fprintf(&b, "| %s | %.4f | %.6f |\n", r.Identifier, r.RawScore, r.ZScore)
		}
	}

	return b.String()
}

// BuildRunSummary renders a Markdown summary from a persisted run record.
func BuildRunSummary(run *score.RunSummary) string {
	var b strings.Builder

	b.WriteString("# Screening Run Summary\n\n")
	fmt.Fprintf(&b, "Run `%s`, recorded %s\n\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Source: `%s`\n\n", run.SourceFile)
	fmt.Fprintf(&b, "- Threshold: %.3f (%s)\n", run.Threshold, tailName(run.Threshold))
	fmt.Fprintf(&b, "- Compounds screened: %d\n", run.TotalCount)
	fmt.Fprintf(&b, "- Significant hits: %d\n", run.SelectedCount)
	fmt.Fprintf(&b, "- Score mean: %.4f\n", run.Mean)
	fmt.Fprintf(&b, "- Score std dev (population): %.4f\n", run.StdDev)
	if run.BestIdentifier != "" {
		fmt.Fprintf(&b, "- Top hit: **%s** (score %.4f, z %.6f)\n", run.BestIdentifier, run.BestRawScore, run.BestZScore)
	} else {
		b.WriteString("- Top hit: none (no compound passed the threshold)\n")
	}

	return b.String()
}

// ToHTML converts a Markdown summary into a standalone HTML fragment.
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func tailName(threshold float64) string {
	if threshold < 0 {
		return "lower tail, z <= threshold"
	}
	return "upper tail, z >= threshold"
}
