package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dockscreen/domain/score"
)

func sampleResult() (score.SelectionResult, score.DistributionStats) {
	selected := []score.Record{
		{Identifier: "CMP-042", RawScore: -11.2, ZScore: -2.714},
		{Identifier: "CMP-007", RawScore: -10.1, ZScore: -2.103},
	}
	result := score.SelectionResult{
		Threshold:  -1.96,
		Selected:   selected,
		TotalCount: 250,
		Best:       &selected[0],
	}
	stats := score.DistributionStats{Mean: -7.4, StdDev: 1.4, Count: 250}
	return result, stats
}

func TestPDFRenderer_WritesFile(t *testing.T) {
	result, stats := sampleResult()
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := NewPDFRenderer().RenderReport(path, result, stats); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report file is empty")
	}
}

func TestPDFRenderer_ManyHitsPaginate(t *testing.T) {
	selected := make([]score.Record, 80)
	for i := range selected {
		selected[i] = score.Record{Identifier: "CMP", RawScore: -10, ZScore: -2.5}
	}
	result := score.SelectionResult{Threshold: -1.96, Selected: selected, TotalCount: 500, Best: &selected[0]}
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := NewPDFRenderer().RenderReport(path, result, score.DistributionStats{Mean: -7, StdDev: 1.2, Count: 500}); err != nil {
		t.Fatalf("RenderReport with 80 rows failed: %v", err)
	}
}

func TestBuildSummary(t *testing.T) {
	result, stats := sampleResult()

	md := BuildSummary("scores.csv", result, stats)

	for _, want := range []string{
		"Threshold: -1.960",
		"lower tail",
		"Compounds screened: 250",
		"Significant hits: 2",
		"CMP-042",
		"-2.714000",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Summary should contain %q:\n%s", want, md)
		}
	}
}

func TestBuildSummary_EmptySelection(t *testing.T) {
	result := score.SelectionResult{Threshold: -1.96, TotalCount: 5}
	stats := score.DistributionStats{Mean: 10, StdDev: 0, Count: 5}

	md := BuildSummary("scores.csv", result, stats)

	if !strings.Contains(md, "Top hit: none") {
		t.Errorf("Empty selection summary should state there is no top hit:\n%s", md)
	}
	if strings.Contains(md, "## Top Hits") {
		t.Errorf("Empty selection summary should not include a hits table:\n%s", md)
	}
}

func TestToHTML_RendersTable(t *testing.T) {
	result, stats := sampleResult()

	htmlOut := string(ToHTML(BuildSummary("scores.csv", result, stats)))

	if !strings.Contains(htmlOut, "<table>") {
		t.Errorf("Expected an HTML table in output:\n%s", htmlOut)
	}
	if !strings.Contains(htmlOut, "CMP-042") {
		t.Errorf("Expected hit identifiers in output:\n%s", htmlOut)
	}
}
