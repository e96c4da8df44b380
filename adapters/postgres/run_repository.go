package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dockscreen/domain/core"
	"dockscreen/domain/score"
	"dockscreen/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS screening_runs (
	id              UUID PRIMARY KEY,
	source_file     TEXT NOT NULL,
	threshold       DOUBLE PRECISION NOT NULL,
	total_count     INTEGER NOT NULL,
	selected_count  INTEGER NOT NULL,
	mean            DOUBLE PRECISION NOT NULL,
	std_dev         DOUBLE PRECISION NOT NULL,
	best_identifier TEXT NOT NULL DEFAULT '',
	best_raw_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	best_z_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// RunRepositoryImpl implements ports.RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository connects to the database and ensures the schema exists.
func NewRunRepository(databaseURL string) (ports.RunRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &RunRepositoryImpl{db: db}, nil
}

// NewRunRepositoryWithDB wraps an existing connection (used by tests).
func NewRunRepositoryWithDB(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// SaveRun persists one run summary
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *score.RunSummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO screening_runs
			(id, source_file, threshold, total_count, selected_count, mean, std_dev,
			 best_identifier, best_raw_score, best_z_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, run.ID, run.SourceFile, run.Threshold, run.TotalCount, run.SelectedCount,
		run.Mean, run.StdDev, run.BestIdentifier, run.BestRawScore, run.BestZScore, run.CreatedAt)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]score.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	runs := []score.RunSummary{}
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, source_file, threshold, total_count, selected_count, mean, std_dev,
		       best_identifier, best_raw_score, best_z_score, created_at
		FROM screening_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun retrieves a run summary by id
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id uuid.UUID) (*score.RunSummary, error) {
	var run score.RunSummary
	err := r.db.GetContext(ctx, &run, `
		SELECT id, source_file, threshold, total_count, selected_count, mean, std_dev,
		       best_identifier, best_raw_score, best_z_score, created_at
		FROM screening_runs
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
