package engine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/underwrite/internal/classify"
	"github.com/ledgerline/underwrite/internal/common"
	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/engine"
	"github.com/ledgerline/underwrite/internal/income"
	"github.com/ledgerline/underwrite/internal/metrics"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/patterns"
	"github.com/ledgerline/underwrite/internal/scoring"
)

func newTestPipeline(t *testing.T) *engine.Pipeline {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := config.Load()
	require.NoError(t, err)

	lib, err := patterns.NewLibrary()
	require.NoError(t, err)

	detector := income.NewDetector(cfg.Detector, lib)
	classifier := classify.New(lib, detector, cfg.Classify, nil)
	aggregator := metrics.NewAggregator(cfg.Product, cfg.Metrics)
	scorer := scoring.NewEngine(cfg.Scoring, cfg.Product, nil)
	return engine.NewPipeline(classifier, aggregator, scorer, nil)
}

// testApplicant builds three months of bank statements for an applicant
// with a steady salary, rent and groceries.
func testApplicant(reference string) model.Applicant {
	var txns []model.Transaction
	for month := 0; month < 3; month++ {
		base := time.Date(2024, time.Month(1+month), 1, 0, 0, 0, 0, time.UTC)
		txns = append(txns,
			model.Transaction{
				Date:        base.AddDate(0, 0, 24),
				Description: "ACME LTD SALARY",
				Amount:      -2400,
			},
			model.Transaction{
				Date:            base,
				Description:     "RENT STANDING ORDER",
				TaxonomyPrimary: "RENT_AND_UTILITIES",
				Amount:          700,
			},
			model.Transaction{
				Date:        base.AddDate(0, 0, 10),
				Description: "TESCO STORES 3124",
				Amount:      85.50,
			},
		)
	}
	return model.Applicant{
		Reference:    reference,
		Request:      model.LoanRequest{Amount: 400, Term: 4},
		Transactions: txns,
	}
}

func TestScoreApplicant(t *testing.T) {
	p := newTestPipeline(t)

	outcome, err := p.ScoreApplicant(context.Background(), testApplicant("APP-001"))
	require.NoError(t, err)

	assert.Equal(t, "APP-001", outcome.Result.Reference)
	assert.Len(t, outcome.Classified, 9, "every transaction is classified")
	assert.Equal(t, 3, outcome.Metrics.MonthsOfData)
	assert.InDelta(t, 2400, outcome.Metrics.Income.MonthlyIncome, 1)
	assert.True(t, outcome.Metrics.Income.Verified)
	assert.NotEqual(t, "", string(outcome.Result.Decision))
}

func TestScoreApplicant_BankGiroSalary(t *testing.T) {
	p := newTestPipeline(t)

	var txns []model.Transaction
	for month := 0; month < 3; month++ {
		txns = append(txns, model.Transaction{
			Date:        time.Date(2024, time.Month(1+month), 25, 0, 0, 0, 0, time.UTC),
			Description: "BANK GIRO CREDIT ACME CORP",
			Amount:      -2500,
		})
	}

	outcome, err := p.ScoreApplicant(context.Background(), model.Applicant{
		Reference:    "APP-GIRO",
		Request:      model.LoanRequest{Amount: 400, Term: 4},
		Transactions: txns,
	})
	require.NoError(t, err)

	for _, ct := range outcome.Classified {
		assert.Equal(t, model.CategoryIncome, ct.Result.Category)
		assert.Equal(t, "salary", ct.Result.Subcategory)
		assert.Equal(t, 1.0, ct.Result.Weight)
	}
	assert.InDelta(t, 2500, outcome.Metrics.Income.MonthlyIncome, 0.01)
}

func TestScoreApplicant_NoTransactions(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.ScoreApplicant(context.Background(), model.Applicant{
		Reference: "APP-EMPTY",
		Request:   model.LoanRequest{Amount: 400, Term: 4},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoTransactions)
	assert.Contains(t, err.Error(), "APP-EMPTY")
}

func TestScoreApplicant_CancelledContext(t *testing.T) {
	p := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ScoreApplicant(ctx, testApplicant("APP-002"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreApplicant_Idempotent(t *testing.T) {
	p := newTestPipeline(t)
	app := testApplicant("APP-003")

	first, err := p.ScoreApplicant(context.Background(), app)
	require.NoError(t, err)

	for n := 0; n < 5; n++ {
		again, err := p.ScoreApplicant(context.Background(), app)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScoreApplicant_IdempotentDecimalAmounts(t *testing.T) {
	p := newTestPipeline(t)

	// Decimal amounts whose sums depend on addition order; a map-ordered
	// accumulation anywhere in the pipeline would surface here as a score
	// that wobbles between runs.
	var txns []model.Transaction
	salaries := []float64{2400.01, 2399.97, 2400.05}
	for month, amount := range salaries {
		base := time.Date(2024, time.Month(1+month), 1, 0, 0, 0, 0, time.UTC)
		txns = append(txns,
			model.Transaction{
				Date:        base.AddDate(0, 0, 24),
				Description: "ACME LTD SALARY",
				Amount:      -amount,
			},
			model.Transaction{
				Date:            base,
				Description:     "RENT STANDING ORDER",
				TaxonomyPrimary: "RENT_AND_UTILITIES",
				Amount:          612.34,
			},
			model.Transaction{
				Date:        base.AddDate(0, 0, 5),
				Description: "TESCO STORES 3124",
				Amount:      33.33,
			},
			model.Transaction{
				Date:        base.AddDate(0, 0, 9),
				Description: "BRITISH GAS",
				Amount:      99.98,
			},
			model.Transaction{
				Date:        base.AddDate(0, 0, 14),
				Description: "COUNCIL TAX",
				Amount:      150.10,
			},
		)
	}
	app := model.Applicant{
		Reference:    "APP-DEC",
		Request:      model.LoanRequest{Amount: 400, Term: 4},
		Transactions: txns,
	}

	first, err := p.ScoreApplicant(context.Background(), app)
	require.NoError(t, err)

	for n := 0; n < 200; n++ {
		again, err := p.ScoreApplicant(context.Background(), app)
		require.NoError(t, err)
		assert.Equal(t, first.Result.Score, again.Result.Score)
		assert.Equal(t, first, again)
	}
}

func TestScoreBatch_PreservesOrder(t *testing.T) {
	p := newTestPipeline(t)

	apps := make([]model.Applicant, 8)
	for i := range apps {
		apps[i] = testApplicant(fmt.Sprintf("APP-%03d", i))
	}

	outcomes, err := p.ScoreBatch(context.Background(), apps, 3)
	require.NoError(t, err)
	require.Len(t, outcomes, 8)

	for i, outcome := range outcomes {
		assert.Equal(t, fmt.Sprintf("APP-%03d", i), outcome.Result.Reference)
	}
}

func TestScoreBatch_FirstFailureWins(t *testing.T) {
	p := newTestPipeline(t)

	apps := []model.Applicant{
		testApplicant("APP-100"),
		{Reference: "APP-BAD", Request: model.LoanRequest{Amount: 400, Term: 4}},
		testApplicant("APP-101"),
	}

	outcomes, err := p.ScoreBatch(context.Background(), apps, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoTransactions)
	assert.Contains(t, err.Error(), "APP-BAD")
	assert.Nil(t, outcomes)
}

func TestScoreBatch_ZeroWorkers(t *testing.T) {
	p := newTestPipeline(t)

	outcomes, err := p.ScoreBatch(context.Background(), []model.Applicant{testApplicant("APP-200")}, 0)
	require.NoError(t, err)
	assert.Len(t, outcomes, 1)
}
