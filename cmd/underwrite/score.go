package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgerline/underwrite/internal/classify"
	"github.com/ledgerline/underwrite/internal/common"
	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/engine"
	"github.com/ledgerline/underwrite/internal/income"
	"github.com/ledgerline/underwrite/internal/metrics"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/patterns"
	"github.com/ledgerline/underwrite/internal/scoring"
	"github.com/ledgerline/underwrite/internal/storage"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [applicant.json]",
		Short: "Score a loan application from bank transaction data",
		Long: `Score runs the full decision pipeline for one applicant file, or for every
.json file in a directory when --batch is set. Results are written to stdout
as JSON; pass --db to persist each run and its classification audit trail.`,
		Args: cobra.ExactArgs(1),
		RunE: runScore,
	}

	cmd.Flags().Bool("batch", false, "treat the argument as a directory of applicant files")
	cmd.Flags().Int("workers", 4, "concurrent scoring workers in batch mode")
	cmd.Flags().String("db", "", "sqlite database path to persist runs (overrides config)")
	cmd.Flags().Bool("metrics", false, "include the full metrics bundle in output")

	return cmd
}

// scoreOutput is one applicant's JSON output line.
type scoreOutput struct {
	Result  model.ScoringResult  `json:"result"`
	Metrics *model.MetricsBundle `json:"metrics,omitempty"`
	RunID   string               `json:"run_id,omitempty"`
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	batch, _ := cmd.Flags().GetBool("batch")
	workers, _ := cmd.Flags().GetInt("workers")
	dbPath, _ := cmd.Flags().GetString("db")
	withMetrics, _ := cmd.Flags().GetBool("metrics")

	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	dbPath = config.ExpandPath(dbPath)

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	var store *storage.Store
	if dbPath != "" {
		store, err = storage.NewStore(cmd.Context(), dbPath)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				common.LogError(closeErr, "failed to close audit store", common.Fields{"path": dbPath})
			}
		}()
	}

	var apps []model.Applicant
	if batch {
		apps, err = loadApplicantDir(args[0])
	} else {
		var app model.Applicant
		app, err = loadApplicant(args[0])
		apps = []model.Applicant{app}
	}
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if batch {
		bar = progressbar.Default(int64(len(apps)), "processing")
	}

	outcomes, err := pipeline.ScoreBatch(cmd.Context(), apps, workers)
	if err != nil {
		return err
	}

	outputs := make([]scoreOutput, 0, len(outcomes))
	for i, outcome := range outcomes {
		out := scoreOutput{Result: outcome.Result}
		if withMetrics {
			bundle := outcome.Metrics
			out.Metrics = &bundle
		}
		if store != nil {
			runID, saveErr := store.SaveRun(cmd.Context(), outcome.Result, apps[i].Request, outcome.Classified)
			if saveErr != nil {
				return fmt.Errorf("failed to persist run for %s: %w", apps[i].Reference, saveErr)
			}
			out.RunID = runID
		}
		outputs = append(outputs, out)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if batch {
		return enc.Encode(outputs)
	}
	return enc.Encode(outputs[0])
}

// buildPipeline assembles the three pipeline stages from validated config.
func buildPipeline(cfg *config.Config) (*engine.Pipeline, error) {
	lib, err := patterns.NewLibrary()
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern library: %w", err)
	}

	detector := income.NewDetector(cfg.Detector, lib)
	classifier := classify.New(lib, detector, cfg.Classify, slog.Default())
	aggregator := metrics.NewAggregator(cfg.Product, cfg.Metrics)
	scorer := scoring.NewEngine(cfg.Scoring, cfg.Product, slog.Default())

	return engine.NewPipeline(classifier, aggregator, scorer, slog.Default()), nil
}
