package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/underwrite/internal/common"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(reference string) model.ScoringResult {
	return model.ScoringResult{
		Reference: reference,
		Decision:  model.DecisionApprove,
		Score:     82.5,
		Breakdown: model.ScoreBreakdown{Total: 82.5},
		Offer: &model.LoanOffer{
			Principal:        500,
			TermMonths:       4,
			MonthlyRepayment: 246.6,
			TotalRepayable:   986.4,
			APR:              291.8,
		},
	}
}

func sampleClassified() []model.ClassifiedTransaction {
	dated := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	return []model.ClassifiedTransaction{
		{
			Transaction: model.Transaction{
				Date:        dated,
				Description: "ACME LTD SALARY",
				Amount:      -2400,
			},
			Result: model.ClassificationResult{
				Category:    model.CategoryIncome,
				Subcategory: "salary",
				Method:      model.MethodKeyword,
				Confidence:  0.95,
				Weight:      1.0,
			},
		},
		{
			Transaction: model.Transaction{
				Description: "TESCO STORES 3124",
				Amount:      85.50,
			},
			Result: model.ClassificationResult{
				Category:    model.CategoryEssential,
				Subcategory: "groceries",
				Method:      model.MethodKeyword,
				Confidence:  0.95,
				Weight:      1.0,
			},
		},
	}
}

func TestSaveRunRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := sampleResult("APP-001")
	req := model.LoanRequest{Amount: 500, Term: 4}

	runID, err := store.SaveRun(ctx, result, req, sampleClassified())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	rec, err := store.GetRun(ctx, runID)
	require.NoError(t, err)

	assert.Equal(t, runID, rec.ID)
	assert.Equal(t, "APP-001", rec.Reference)
	assert.Equal(t, model.DecisionApprove, rec.Decision)
	assert.Equal(t, 82.5, rec.Score)
	assert.Equal(t, 500.0, rec.RequestedAmount)
	assert.Equal(t, 4, rec.RequestedTerm)
	assert.Equal(t, 500.0, rec.Offer.Principal)
	assert.Equal(t, 4, rec.Offer.TermMonths)
	assert.Empty(t, rec.DeclineReasons)
	assert.Empty(t, rec.ReferReasons)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSaveRunReasons(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := model.ScoringResult{
		Reference:      "APP-002",
		Decision:       model.DecisionDecline,
		Score:          0,
		DeclineReasons: []string{"Active HCSTC with 7 lenders in last 90 days (maximum 6)"},
		ReferReasons:   []string{"Gambling (16.0%) exceeds maximum (15%)"},
	}

	runID, err := store.SaveRun(ctx, result, model.LoanRequest{Amount: 300, Term: 3}, nil)
	require.NoError(t, err)

	rec, err := store.GetRun(ctx, runID)
	require.NoError(t, err)

	assert.Equal(t, model.DecisionDecline, rec.Decision)
	assert.Equal(t, result.DeclineReasons, rec.DeclineReasons)
	assert.Equal(t, result.ReferReasons, rec.ReferReasons)
	assert.Zero(t, rec.Offer.Principal)
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "no-such-run")
}

func TestListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	req := model.LoanRequest{Amount: 500, Term: 4}

	first, err := store.SaveRun(ctx, sampleResult("APP-003"), req, nil)
	require.NoError(t, err)
	second, err := store.SaveRun(ctx, sampleResult("APP-003"), req, nil)
	require.NoError(t, err)
	_, err = store.SaveRun(ctx, sampleResult("APP-OTHER"), req, nil)
	require.NoError(t, err)

	records, err := store.ListRuns(ctx, "APP-003")
	require.NoError(t, err)
	require.Len(t, records, 2)

	ids := []string{records[0].ID, records[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)
	for _, rec := range records {
		assert.Equal(t, "APP-003", rec.Reference)
	}
}

func TestListRunsEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.ListRuns(context.Background(), "APP-UNSEEN")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetAudit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID, err := store.SaveRun(ctx, sampleResult("APP-004"),
		model.LoanRequest{Amount: 500, Term: 4}, sampleClassified())
	require.NoError(t, err)

	audit, err := store.GetAudit(ctx, runID)
	require.NoError(t, err)
	require.Len(t, audit, 2)

	salary := audit[0]
	assert.Equal(t, runID, salary.RunID)
	require.NotNil(t, salary.Date)
	assert.Equal(t, 2024, salary.Date.Year())
	assert.Equal(t, -2400.0, salary.Amount)
	assert.Equal(t, "income", salary.Category)
	assert.Equal(t, "salary", salary.Subcategory)

	// Undated transactions persist with a NULL date.
	grocery := audit[1]
	assert.Nil(t, grocery.Date)
	assert.Equal(t, "essential", grocery.Category)
	assert.Equal(t, "groceries", grocery.Subcategory)
}

func TestGetAuditEmptyRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID, err := store.SaveRun(ctx, sampleResult("APP-005"),
		model.LoanRequest{Amount: 500, Term: 4}, nil)
	require.NoError(t, err)

	audit, err := store.GetAudit(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, audit)
}
