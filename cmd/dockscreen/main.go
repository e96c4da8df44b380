package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"dockscreen/adapters/plot"
	"dockscreen/adapters/postgres"
	"dockscreen/adapters/report"
	"dockscreen/adapters/tabular"
	"dockscreen/app"
	"dockscreen/domain/core"
	"dockscreen/internal/config"
	"dockscreen/ports"
	"dockscreen/ui"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dockscreen",
		Short: "Z-score significance analysis for virtual screening results",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var threshold float64
	var outDir string
	var noPlots bool
	var noPDF bool

	cmd := &cobra.Command{
		Use:   "analyze [input-file]",
		Short: "Classify a score file and write the hit reports",
		Long: `Read a CSV or XLSX score table, z-score every compound against the run's
distribution, select the significant tail, and write the annotated hits CSV,
the PDF table, and the two distribution charts.

Example: dockscreen analyze scores.csv --threshold -1.960 --out-dir results`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threshold") {
				if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
					return core.NewInvalidThresholdError(threshold)
				}
				cfg.Analysis.Threshold = threshold
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}
			return runAnalyze(cmd, args[0], cfg, noPlots, noPDF)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", -1.960, "Signed z-score cutoff (negative selects the lower tail)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (default: current directory)")
	cmd.Flags().BoolVar(&noPlots, "no-plots", false, "Skip the distribution charts")
	cmd.Flags().BoolVar(&noPDF, "no-pdf", false, "Skip the PDF table")

	return cmd
}

func runAnalyze(cmd *cobra.Command, inputPath string, cfg *config.Config, noPlots, noPDF bool) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		var err error
		runs, err = postgres.NewRunRepository(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
	}

	svc := app.NewScreeningService(
		tabular.NewWriter(cfg.Columns.Identifier, cfg.Columns.Score),
		report.NewPDFRenderer(),
		plot.NewRenderer(),
		runs,
	)

	req := app.RunRequest{
		Reader:     tabular.NewReader(inputPath, cfg.Columns.Identifier, cfg.Columns.Score),
		SourceName: filepath.Base(inputPath),
		Threshold:  cfg.Analysis.Threshold,
		HitsPath:   filepath.Join(cfg.Output.Dir, hitsName(inputPath)),
	}
	if !noPDF {
		req.ReportPath = filepath.Join(cfg.Output.Dir, "Z-Score_Table.pdf")
	}
	if !noPlots {
		req.CurvePath = filepath.Join(cfg.Output.Dir, "Z_Score_Distribution_Curve.html")
		req.DistributionPath = filepath.Join(cfg.Output.Dir, "Docking_Score_Distribution_Curve.html")
	}

	out, err := svc.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	log.Printf("[analyze] %d of %d compounds significant at z threshold %.3f (%dms)",
		len(out.Result.Selected), out.Result.TotalCount, out.Result.Threshold, out.RuntimeMs)
	if out.Result.Best != nil {
		log.Printf("[analyze] Top hit: %s (score %.4f, z %.6f)",
			out.Result.Best.Identifier, out.Result.Best.RawScore, out.Result.Best.ZScore)
	} else {
		log.Printf("[analyze] No significant hits at this threshold")
	}
	return nil
}

// hitsName derives the annotated output name from the input file, keeping
// the original tool's convention: scores.csv -> scores_with_Z_Scores.csv.
func hitsName(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if strings.ToLower(ext) != ".xlsx" {
		ext = ".csv"
	}
	return stem + "_with_Z_Scores" + ext
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the screening HTTP API",
		Long: `Serve the analysis pipeline over HTTP: upload a score file to
POST /api/analyze, browse stored runs at GET /api/runs, and fetch a stored
run's HTML report at GET /runs/{id}/report. Run history requires DATABASE_URL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			var runs ports.RunRepository
			if cfg.Database.URL != "" {
				runs, err = postgres.NewRunRepository(cfg.Database.URL)
				if err != nil {
					return fmt.Errorf("failed to open run history: %w", err)
				}
			}

			return ui.NewServer(cfg, runs).Start()
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default from PORT env, else 8080)")

	return cmd
}
