package report

import (
	"fmt"
	"log"
	"strconv"

	"dockscreen/domain/score"

	"github.com/go-pdf/fpdf"
)

const (
	colWidth   = 60.0
	rowHeight  = 10.0
	pageBreakY = 260.0
)

// PDFRenderer renders the selected hits into a paginated PDF table.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDF report renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// RenderReport writes the hit table to path. The table keeps the selection
// order, so the most significant compound is the first data row.
func (r *PDFRenderer) RenderReport(path string, result score.SelectionResult, stats score.DistributionStats) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, rowHeight, titleFor(result.Threshold), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, rowHeight,
		fmt.Sprintf("Total Number of Selected Compounds: %d (of %d screened)", len(result.Selected), result.TotalCount),
		"", 1, "C", false, 0, "")
	pdf.CellFormat(0, rowHeight,
		fmt.Sprintf("Distribution: mean %.4f, std dev %.4f", stats.Mean, stats.StdDev),
		"", 1, "C", false, 0, "")
	pdf.Ln(5)

	r.tableHeader(pdf)
	pdf.SetFont("Arial", "", 10)
	for _, rec := range result.Selected {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			r.tableHeader(pdf)
			pdf.SetFont("Arial", "", 10)
		}
		pdf.CellFormat(colWidth, rowHeight, rec.Identifier, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, rowHeight, strconv.FormatFloat(rec.RawScore, 'g', -1, 64), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidth, rowHeight, strconv.FormatFloat(rec.ZScore, 'f', 6, 64), "1", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}

	log.Printf("[PDFRenderer] Wrote report with %d hits to %s", len(result.Selected), path)
	return nil
}

func (r *PDFRenderer) tableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(colWidth, rowHeight, "Compound ID", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidth, rowHeight, "Docking Score (kcal/mol)", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidth, rowHeight, "Calculated Z-Score", "1", 1, "L", false, 0, "")
}

// titleFor phrases the report title to match the test direction.
func titleFor(threshold float64) string {
	if threshold < 0 {
		return fmt.Sprintf("Compounds with Z-Score <= %.3f", threshold)
	}
	return fmt.Sprintf("Compounds with Z-Score >= %.3f", threshold)
}
