package tabular

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dockscreen/domain/score"

	"github.com/xuri/excelize/v2"
)

// Writer writes the selected hit subset back to a tabular file. The output
// keeps the input column names so round trips through the reader work.
type Writer struct {
	idColumn    string
	scoreColumn string
	zColumn     string
}

// NewWriter creates a hit writer with the given column names.
func NewWriter(idColumn, scoreColumn string) *Writer {
	return &Writer{
		idColumn:    idColumn,
		scoreColumn: scoreColumn,
		zColumn:     "Z Score",
	}
}

// WriteHits writes one row per selected record, in selection order. The file
// type is inferred from the path extension; anything that is not .xlsx is
// written as CSV.
func (w *Writer) WriteHits(path string, result score.SelectionResult) error {
	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		return w.writeExcel(path, result)
	}
	return w.writeCSV(path, result)
}

func (w *Writer) writeCSV(path string, result score.SelectionResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create hits file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{w.idColumn, w.scoreColumn, w.zColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range result.Selected {
		row := []string{
			r.Identifier,
			strconv.FormatFloat(r.RawScore, 'g', -1, 64),
			formatZ(r.ZScore),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.Identifier, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush hits file: %w", err)
	}

	log.Printf("[Writer] Wrote %d hits to %s", len(result.Selected), path)
	return nil
}

func (w *Writer) writeExcel(path string, result score.SelectionResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{w.idColumn, w.scoreColumn, w.zColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range result.Selected {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{r.Identifier, r.RawScore, formatZ(r.ZScore)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.Identifier, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	log.Printf("[Writer] Wrote %d hits to %s", len(result.Selected), path)
	return nil
}

// formatZ renders a z-score with six decimals, matching the report tables.
func formatZ(z float64) string {
	return strconv.FormatFloat(z, 'f', 6, 64)
}
