// Package engine wires the classification, metrics and scoring stages into
// a single pipeline and runs it for one applicant or a batch.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/underwrite/internal/classify"
	"github.com/ledgerline/underwrite/internal/common"
	"github.com/ledgerline/underwrite/internal/metrics"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/scoring"
)

// Pipeline runs classification, aggregation and scoring in sequence.
// It is safe for concurrent use: each run derives everything from its
// own applicant and never mutates shared state.
type Pipeline struct {
	classifier *classify.Classifier
	aggregator *metrics.Aggregator
	scorer     *scoring.Engine
	logger     *slog.Logger
}

// Outcome bundles the complete output of one pipeline run.
type Outcome struct {
	Result     model.ScoringResult
	Metrics    model.MetricsBundle
	Classified []model.ClassifiedTransaction
}

// NewPipeline assembles a pipeline from its three stages.
func NewPipeline(classifier *classify.Classifier, aggregator *metrics.Aggregator, scorer *scoring.Engine, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		classifier: classifier,
		aggregator: aggregator,
		scorer:     scorer,
		logger:     logger,
	}
}

// ScoreApplicant runs the full pipeline for one applicant.
func (p *Pipeline) ScoreApplicant(ctx context.Context, app model.Applicant) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if len(app.Transactions) == 0 {
		return Outcome{}, fmt.Errorf("applicant %s: %w", app.Reference, common.ErrNoTransactions)
	}

	classified := p.classifier.Classify(app.Transactions)
	months := metrics.MonthsOfData(classified)
	bundle := p.aggregator.Aggregate(classified, months, app.Request)
	result := p.scorer.Score(bundle, app.Request, app.Reference)

	p.logger.Debug("pipeline run complete",
		"reference", app.Reference,
		"transactions", len(classified),
		"months_of_data", months,
		"decision", result.Decision)

	return Outcome{
		Result:     result,
		Metrics:    bundle,
		Classified: classified,
	}, nil
}

// ScoreBatch scores a slice of applicants with bounded concurrency,
// preserving input order in the returned outcomes. The first failure
// cancels the remaining work.
func (p *Pipeline) ScoreBatch(ctx context.Context, apps []model.Applicant, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(apps))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			outcome, err := p.ScoreApplicant(ctx, app)
			if err != nil {
				return fmt.Errorf("failed to score %s: %w", app.Reference, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
