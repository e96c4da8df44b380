package tabular

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dockscreen/domain/core"
	"dockscreen/domain/score"

	"github.com/xuri/excelize/v2"
)

// Reader reads scored compounds from CSV or Excel files.
type Reader struct {
	filePath    string
	fileType    string // "xlsx" or "csv"
	idColumn    string
	scoreColumn string
}

// NewReader creates a reader for the given file. The file type is inferred
// from the extension; anything that is not .csv is treated as xlsx.
func NewReader(filePath, idColumn, scoreColumn string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &Reader{
		filePath:    filePath,
		fileType:    fileType,
		idColumn:    idColumn,
		scoreColumn: scoreColumn,
	}
}

// ReadRecords reads the batch into memory. Rows with an empty identifier or a
// score cell that does not coerce to a finite float reject the whole file; a
// file with a header but no data rows is an insufficient-data error.
func (r *Reader) ReadRecords() ([]score.Record, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	return r.parseRows(rows)
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

func (r *Reader) parseRows(rows [][]string) ([]score.Record, error) {
	if len(rows) == 0 {
		return nil, core.ErrInsufficientData
	}

	idIdx, scoreIdx := -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case r.idColumn:
			idIdx = i
		case r.scoreColumn:
			scoreIdx = i
		}
	}
	if idIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("missing required columns %q and %q in %s", r.idColumn, r.scoreColumn, r.filePath)
	}

	records := make([]score.Record, 0, len(rows)-1)
	for rowNum, row := range rows[1:] {
		if len(row) <= idIdx || len(row) <= scoreIdx {
			return nil, core.NewInvalidRecordError(fmt.Sprintf("row %d", rowNum+2), "too few cells")
		}

		identifier := strings.TrimSpace(row[idIdx])
		if identifier == "" {
			return nil, core.NewInvalidRecordError(fmt.Sprintf("row %d", rowNum+2), "empty identifier")
		}

		raw, err := coerceScore(row[scoreIdx])
		if err != nil {
			return nil, core.NewInvalidRecordError(identifier, err.Error())
		}

		records = append(records, score.Record{Identifier: identifier, RawScore: raw})
	}

	if len(records) == 0 {
		return nil, core.ErrInsufficientData
	}

	log.Printf("[Reader] Loaded %d records from %s", len(records), r.filePath)
	return records, nil
}

// coerceScore parses a score cell, accepting comma decimal separators as
// exported by some docking suites. A fractional part shorter than two digits
// is zero padded, so "-7,5" reads as -7.50.
func coerceScore(cell string) (float64, error) {
	v := strings.TrimSpace(cell)
	if v == "" {
		return 0, fmt.Errorf("empty score cell")
	}

	if strings.Contains(v, ",") {
		parts := strings.SplitN(v, ",", 2)
		frac := parts[1]
		for len(frac) < 2 {
			frac += "0"
		}
		v = parts[0] + "." + frac
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("score %q is not numeric", cell)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("score %q is not finite", cell)
	}
	return f, nil
}
