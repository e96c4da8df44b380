package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"dockscreen/adapters/report"
	"dockscreen/adapters/tabular"
	"dockscreen/app"
	"dockscreen/domain/core"
	"dockscreen/domain/score"
	"dockscreen/internal/config"
	apperrors "dockscreen/internal/errors"
	"dockscreen/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxUploadBytes = 32 << 20

// Server exposes the screening pipeline over HTTP.
type Server struct {
	router  *chi.Mux
	service *app.ScreeningService
	runs    ports.RunRepository // may be nil
	cfg     *config.Config
}

// NewServer creates the HTTP server. The analyze endpoint computes in memory
// only; file artifacts remain the CLI's job.
func NewServer(cfg *config.Config, runs ports.RunRepository) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: app.NewScreeningService(nil, nil, nil, runs),
		runs:    runs,
		cfg:     cfg,
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Post("/api/analyze", s.handleAnalyze)
	s.router.Get("/api/runs", s.handleListRuns)
	s.router.Get("/runs/{id}/report", s.handleRunReport)

	return s
}

// Router returns the underlying handler (used by tests).
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	log.Printf("[Server] Listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

type analyzeResponse struct {
	Result score.SelectionResult   `json:"result"`
	Stats  score.DistributionStats `json:"stats"`
	RunID  string                  `json:"run_id,omitempty"`
}

// handleAnalyze accepts a multipart CSV/XLSX upload plus an optional
// threshold field and returns the selection as JSON.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	threshold := s.cfg.Analysis.Threshold
	if raw := r.FormValue("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			s.writeError(w, http.StatusBadRequest,
				apperrors.WithCode(apperrors.CodeInvalidInput, core.NewInvalidThresholdError(threshold)))
			return
		}
	}

	// The tabular reader works on files, so spool the upload to a temp path.
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	tmp.Close()

	reader := tabular.NewReader(tmp.Name(), s.cfg.Columns.Identifier, s.cfg.Columns.Score)
	out, err := s.service.Run(r.Context(), app.RunRequest{
		Reader:     reader,
		SourceName: header.Filename,
		Threshold:  threshold,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsDataError(err) || core.IsConfigError(err) {
			status = http.StatusUnprocessableEntity
		}
		s.writeError(w, status, err)
		return
	}

	resp := analyzeResponse{Result: out.Result, Stats: out.Stats}
	if out.RunID != uuid.Nil {
		resp.RunID = out.RunID.String()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("run history is not configured"))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("run history is not configured"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if err == core.ErrRunNotFound {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.ToHTML(report.BuildRunSummary(run)))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	log.Printf("[Server] Request failed (%d): %v", status, err)
	s.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.CodeOf(err),
	})
}
