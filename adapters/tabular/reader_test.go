package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dockscreen/domain/core"
	"dockscreen/domain/score"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scores.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp CSV: %v", err)
	}
	return path
}

func TestReader_ReadsCSV(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"Title,docking score",
		"CMP-001,-9.81",
		"CMP-002,-7.2",
		"CMP-003,-6.55",
	}, "\n"))

	reader := NewReader(path, "Title", "docking score")
	records, err := reader.ReadRecords()
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].Identifier != "CMP-001" || records[0].RawScore != -9.81 {
		t.Errorf("First record mismatch: %+v", records[0])
	}
	// Input order must be preserved.
	if records[2].Identifier != "CMP-003" {
		t.Errorf("Expected CMP-003 last, got %s", records[2].Identifier)
	}
}

func TestReader_ExtraColumnsIgnored(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"Rank,Title,docking score,Notes",
		"1,CMP-001,-9.81,ok",
	}, "\n"))

	reader := NewReader(path, "Title", "docking score")
	records, err := reader.ReadRecords()
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].RawScore != -9.81 {
		t.Errorf("Expected the score column to be located by header, got %+v", records)
	}
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "header only",
			content: "Title,docking score",
			wantErr: core.ErrInsufficientData,
		},
		{
			name:    "non-numeric score",
			content: "Title,docking score\nCMP-001,abc",
			wantErr: core.ErrInvalidRecord,
		},
		{
			name:    "empty identifier",
			content: "Title,docking score\n,-7.5",
			wantErr: core.ErrInvalidRecord,
		},
		{
			name:    "empty score cell",
			content: "Title,docking score\nCMP-001,",
			wantErr: core.ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.content)
			reader := NewReader(path, "Title", "docking score")
			_, err := reader.ReadRecords()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		cell    string
		want    float64
		wantErr bool
	}{
		{cell: "-7.25", want: -7.25},
		{cell: "-7,25", want: -7.25},
		{cell: "-7,5", want: -7.5}, // short fraction, zero padded
		{cell: "-7,", want: -7.0},
		{cell: " -7.25 ", want: -7.25},
		{cell: "3", want: 3},
		{cell: "", wantErr: true},
		{cell: "abc", wantErr: true},
		{cell: "NaN", wantErr: true},
		{cell: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := coerceScore(tt.cell)
			if tt.wantErr {
				if err == nil {
					t.Errorf("coerceScore(%q) should fail, got %v", tt.cell, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerceScore(%q) failed: %v", tt.cell, err)
			}
			if got != tt.want {
				t.Errorf("coerceScore(%q) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestWriter_RoundTripThroughReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.csv")
	writer := NewWriter("Title", "docking score")

	result := score.SelectionResult{
		Threshold: -1.96,
		Selected: []score.Record{
			{Identifier: "CMP-007", RawScore: -10.4, ZScore: -2.351678},
			{Identifier: "CMP-003", RawScore: -9.9, ZScore: -2.0125},
		},
		TotalCount: 120,
	}
	if err := writer.WriteHits(path, result); err != nil {
		t.Fatalf("WriteHits failed: %v", err)
	}

	// The written file must be readable by the same reader, preserving order.
	reader := NewReader(path, "Title", "docking score")
	records, err := reader.ReadRecords()
	if err != nil {
		t.Fatalf("ReadRecords on written hits failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(records))
	}
	if records[0].Identifier != "CMP-007" || records[0].RawScore != -10.4 {
		t.Errorf("First hit mismatch: %+v", records[0])
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if !strings.Contains(string(raw), "-2.351678") {
		t.Errorf("Z-scores should be written with six decimals, got:\n%s", raw)
	}
}
