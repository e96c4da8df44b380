package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"dockscreen/domain/score"
	"dockscreen/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{Threshold: score.DefaultThreshold},
		Columns:  config.ColumnConfig{Identifier: "Title", Score: "docking score"},
		Server:   config.ServerConfig{Port: "0"},
	}
}

func uploadCSV(t *testing.T, csvBody string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "scores.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write([]byte(csvBody)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleAnalyze(t *testing.T) {
	server := NewServer(testConfig(), nil)

	csvBody := "Title,docking score\nCMP-A,-5\nCMP-B,-2\nCMP-C,0\nCMP-D,2\nCMP-E,5\n"
	req := uploadCSV(t, csvBody, map[string]string{"threshold": "-1.645"})
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result.TotalCount != 5 {
		t.Errorf("Expected total count 5, got %d", resp.Result.TotalCount)
	}
	if len(resp.Result.Selected) != 1 || resp.Result.Selected[0].Identifier != "CMP-A" {
		t.Errorf("Expected single hit CMP-A, got %+v", resp.Result.Selected)
	}
	if resp.Stats.Count != 5 {
		t.Errorf("Expected stats over 5 records, got %d", resp.Stats.Count)
	}
}

func TestHandleAnalyze_BadInput(t *testing.T) {
	server := NewServer(testConfig(), nil)

	tests := []struct {
		name       string
		csvBody    string
		fields     map[string]string
		wantStatus int
	}{
		{
			name:       "header only",
			csvBody:    "Title,docking score\n",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid threshold",
			csvBody:    "Title,docking score\nCMP-A,-5\n",
			fields:     map[string]string{"threshold": "NaN"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric score",
			csvBody:    "Title,docking score\nCMP-A,abc\n",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := uploadCSV(t, tt.csvBody, tt.fields)
			rec := httptest.NewRecorder()
			server.Router().ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleListRuns_NoRepository(t *testing.T) {
	server := NewServer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without run history, got %d", rec.Code)
	}
}
