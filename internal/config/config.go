package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"dockscreen/domain/core"
	"dockscreen/domain/score"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Columns  ColumnConfig
	Output   OutputConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// AnalysisConfig holds the significance settings
type AnalysisConfig struct {
	// Threshold is the signed z-score cutoff. Negative selects the lower
	// tail, non-negative the upper.
	Threshold float64
}

// ColumnConfig maps the tabular input columns
type ColumnConfig struct {
	Identifier string
	Score      string
}

// OutputConfig holds output locations
type OutputConfig struct {
	Dir string
}

// DatabaseConfig holds optional run-history storage settings
type DatabaseConfig struct {
	URL string // empty disables persistence
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from the environment (and .env when present) and
// validates it. Every setting has a default; only a non-finite threshold is a
// hard failure.
func Load() (*Config, error) {
	// Best effort: a missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Analysis: AnalysisConfig{Threshold: score.DefaultThreshold},
		Columns: ColumnConfig{
			Identifier: getEnv("DOCKSCREEN_ID_COLUMN", "Title"),
			Score:      getEnv("DOCKSCREEN_SCORE_COLUMN", "docking score"),
		},
		Output:   OutputConfig{Dir: getEnv("DOCKSCREEN_OUTPUT_DIR", ".")},
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:   ServerConfig{Port: getEnv("PORT", "8080")},
	}

	if raw := os.Getenv("DOCKSCREEN_THRESHOLD"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: DOCKSCREEN_THRESHOLD=%q", core.ErrInvalidThreshold, raw)
		}
		if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			return nil, core.NewInvalidThresholdError(threshold)
		}
		cfg.Analysis.Threshold = threshold
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
