package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/model"
)

func testProduct() config.ProductConfig {
	return config.ProductConfig{
		MinLoanAmount:       200,
		MaxLoanAmount:       1500,
		AvailableTerms:      []int{3, 4, 5, 6},
		DailyInterestRate:   0.008,
		TotalCostCap:        1.0,
		DaysPerMonth:        30.4,
		ExpenseShockBuffer:  1.1,
		MinDisposableBuffer: 50,
	}
}

func testWindows() config.MetricsConfig {
	return config.MetricsConfig{
		HCSTCLookbackDays:         90,
		FailedPaymentLookbackDays: 45,
		BankChargeLookbackDays:    90,
	}
}

func newTestAggregator() *Aggregator {
	return NewAggregator(testProduct(), testWindows())
}

func classifiedOn(date string, amount float64, desc string, category model.Category, sub string, weight float64) model.ClassifiedTransaction {
	d, _ := time.Parse("2006-01-02", date)
	return model.ClassifiedTransaction{
		Transaction: model.Transaction{Date: d, Description: desc, Amount: amount},
		Result: model.ClassificationResult{
			Category:    category,
			Subcategory: sub,
			Weight:      weight,
			Confidence:  0.9,
		},
	}
}

func salaryCredit(date string, amount float64) model.ClassifiedTransaction {
	return classifiedOn(date, -amount, "ACME LTD SALARY", model.CategoryIncome, "salary", 1.0)
}

func TestMonthsOfData(t *testing.T) {
	tests := []struct {
		name       string
		classified []model.ClassifiedTransaction
		want       int
	}{
		{
			name: "three distinct months",
			classified: []model.ClassifiedTransaction{
				salaryCredit("2024-01-25", 2500),
				salaryCredit("2024-02-25", 2500),
				salaryCredit("2024-03-25", 2500),
			},
			want: 3,
		},
		{
			name: "same month counted once",
			classified: []model.ClassifiedTransaction{
				salaryCredit("2024-01-01", 500),
				salaryCredit("2024-01-20", 500),
			},
			want: 1,
		},
		{
			name: "non-income transactions count toward the window",
			classified: []model.ClassifiedTransaction{
				salaryCredit("2024-02-25", 2500),
				classifiedOn("2024-01-03", 30, "TESCO", model.CategoryEssential, "groceries", 1.0),
			},
			want: 2,
		},
		{
			name: "undated transactions excluded",
			classified: []model.ClassifiedTransaction{
				{Transaction: model.Transaction{Description: "X", Amount: -100}},
			},
			want: 1,
		},
		{
			name:       "empty window",
			classified: nil,
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsOfData(tt.classified))
		})
	}
}

func TestAggregate_IncomeMetrics(t *testing.T) {
	a := newTestAggregator()

	classified := []model.ClassifiedTransaction{
		salaryCredit("2024-01-25", 2500),
		salaryCredit("2024-02-26", 2500),
		salaryCredit("2024-03-25", 2500),
		classifiedOn("2024-02-10", -300, "DELIVEROO RIDER PAY", model.CategoryIncome, "gig_economy", 0.7),
		classifiedOn("2024-03-05", -400, "SOME LENDER", model.CategoryIncome, "loans", 0),
	}

	bundle := a.Aggregate(classified, 3, model.LoanRequest{Amount: 500, Term: 4})
	income := bundle.Income

	assert.InDelta(t, 2500, income.MonthlyStableIncome, 0.01)
	// Gig income counts at its discounted weight.
	assert.InDelta(t, 300*0.7/3, income.MonthlyGigIncome, 0.01)
	// Loan disbursements carry weight 0 and never reach income.
	assert.InDelta(t, 0, income.MonthlyOtherIncome, 0.01)
	assert.InDelta(t, 2500+70, income.EffectiveMonthlyIncome, 0.01)
	assert.True(t, income.Verified)
	assert.Equal(t, []string{"gig_economy", "salary"}, income.Sources)
}

func TestAggregate_IncomeStability(t *testing.T) {
	a := newTestAggregator()

	t.Run("identical months score 100", func(t *testing.T) {
		classified := []model.ClassifiedTransaction{
			salaryCredit("2024-01-25", 2500),
			salaryCredit("2024-02-25", 2500),
			salaryCredit("2024-03-25", 2500),
		}
		bundle := a.Aggregate(classified, 3, model.LoanRequest{})
		assert.InDelta(t, 100, bundle.Income.StabilityScore, 0.01)
	})

	t.Run("volatile months score lower", func(t *testing.T) {
		classified := []model.ClassifiedTransaction{
			salaryCredit("2024-01-25", 3000),
			salaryCredit("2024-02-25", 1000),
			salaryCredit("2024-03-25", 2000),
		}
		bundle := a.Aggregate(classified, 3, model.LoanRequest{})
		assert.Less(t, bundle.Income.StabilityScore, 60.0)
	})

	t.Run("single month is neutral", func(t *testing.T) {
		classified := []model.ClassifiedTransaction{salaryCredit("2024-01-25", 2500)}
		bundle := a.Aggregate(classified, 1, model.LoanRequest{})
		assert.Equal(t, 50.0, bundle.Income.StabilityScore)
	})
}

func TestAggregate_IncomeRegularity(t *testing.T) {
	a := newTestAggregator()

	samePayDay := []model.ClassifiedTransaction{
		salaryCredit("2024-01-25", 2500),
		salaryCredit("2024-02-25", 2500),
		salaryCredit("2024-03-25", 2500),
	}
	bundle := a.Aggregate(samePayDay, 3, model.LoanRequest{})
	assert.Equal(t, 100.0, bundle.Income.RegularityScore)

	scattered := []model.ClassifiedTransaction{
		salaryCredit("2024-01-02", 800),
		salaryCredit("2024-01-29", 800),
		salaryCredit("2024-02-15", 800),
		salaryCredit("2024-03-08", 800),
	}
	bundle = a.Aggregate(scattered, 3, model.LoanRequest{})
	assert.LessOrEqual(t, bundle.Income.RegularityScore, 40.0)
}

func TestAggregate_HousingNotDoubleCounted(t *testing.T) {
	a := newTestAggregator()

	// A house move: rent and mortgage both appear in the window. Only the
	// larger one counts as housing.
	classified := []model.ClassifiedTransaction{
		housing("2024-01-01", 800, "rent"),
		housing("2024-02-01", 950, "mortgage"),
		classifiedOn("2024-02-05", 120, "BRITISH GAS", model.CategoryEssential, "utilities", 1.0),
	}

	bundle := a.Aggregate(classified, 2, model.LoanRequest{})
	expense := bundle.Expense

	assert.InDelta(t, 475, expense.MonthlyHousing, 0.01) // mortgage 950/2
	assert.InDelta(t, 475+60, expense.MonthlyEssential, 0.01)
}

func housing(date string, amount float64, sub string) model.ClassifiedTransaction {
	ct := classifiedOn(date, amount, "HOUSING", model.CategoryEssential, sub, 1.0)
	ct.Result.IsHousing = true
	return ct
}

func TestAggregate_DebtMetrics(t *testing.T) {
	a := newTestAggregator()

	classified := []model.ClassifiedTransaction{
		// Two canonical lenders, one inside the 90-day window.
		debtPayment("2024-03-20", 120, "LENDING STREAM"),
		debtPayment("2023-11-01", 90, "MR LENDER"),
		// Variant spellings of the same lender collapse to one.
		debtPayment("2024-03-01", 60, "LENDINGSTREAM"),
		// Non-HCSTC debt counts toward total only.
		classifiedOn("2024-03-10", 200, "CAR FINANCE", model.CategoryDebt, "other_loans", 1.0),
		// Debt collection agencies tracked separately.
		classifiedOn("2024-03-12", 40, "LOWELL", model.CategoryRisk, "debt_collection", 1.0),
	}

	bundle := a.Aggregate(classified, 3, model.LoanRequest{})
	debt := bundle.Debt

	assert.Equal(t, 2, debt.ActiveHCSTCLenders)
	assert.Equal(t, 1, debt.ActiveHCSTCLenders90)
	assert.Equal(t, 1, debt.DistinctDCAs)
	assert.InDelta(t, (120+90+60+200)/3.0, debt.MonthlyDebtPayments, 0.01)
	assert.InDelta(t, (120+90+60)/3.0, debt.MonthlyHCSTCPayments, 0.01)
}

func debtPayment(date string, amount float64, desc string) model.ClassifiedTransaction {
	return classifiedOn(date, amount, desc, model.CategoryDebt, "hcstc_payday", 1.0)
}

func TestAggregate_RiskMetrics(t *testing.T) {
	a := newTestAggregator()

	classified := []model.ClassifiedTransaction{
		salaryCredit("2024-01-25", 2000),
		salaryCredit("2024-02-25", 2000),
		salaryCredit("2024-03-25", 2000),
		classifiedOn("2024-03-10", 150, "BET365", model.CategoryRisk, "gambling", 1.0),
		classifiedOn("2024-03-12", 150, "SKYBET", model.CategoryRisk, "gambling", 1.0),
		classifiedOn("2024-03-15", 12, "UNPAID DD", model.CategoryRisk, "failed_payments", 1.0),
		classifiedOn("2023-12-01", 12, "UNPAID DD", model.CategoryRisk, "failed_payments", 1.0),
		classifiedOn("2024-03-18", 8, "OVERDRAFT FEE", model.CategoryRisk, "bank_charges", 1.0),
	}

	bundle := a.Aggregate(classified, 3, model.LoanRequest{})
	risk := bundle.Risk

	assert.InDelta(t, 300, risk.GamblingTotal, 0.01)
	assert.InDelta(t, 300.0/6000.0*100, risk.GamblingPercentage, 0.01)
	assert.Equal(t, 2, risk.FailedPayments)
	assert.Equal(t, 1, risk.FailedPayments45, "old failure outside the 45-day window")
	assert.Equal(t, 1, risk.BankCharges)
	assert.Equal(t, 1, risk.BankCharges90)
}

func TestAggregate_ZeroIncomeSentinels(t *testing.T) {
	a := newTestAggregator()

	classified := []model.ClassifiedTransaction{
		classifiedOn("2024-03-01", 500, "RENT", model.CategoryEssential, "rent", 1.0),
		classifiedOn("2024-03-05", 100, "CAR FINANCE", model.CategoryDebt, "other_loans", 1.0),
		classifiedOn("2024-03-10", 50, "BET365", model.CategoryRisk, "gambling", 1.0),
	}

	bundle := a.Aggregate(classified, 1, model.LoanRequest{Amount: 500, Term: 4})

	// Ratios are defined as 0 with no income, never a division error.
	assert.Equal(t, 0.0, bundle.Affordability.DebtToIncomeRatio)
	assert.Equal(t, 0.0, bundle.Affordability.EssentialRatio)
	assert.Equal(t, 0.0, bundle.Risk.GamblingPercentage)
	assert.Negative(t, bundle.Affordability.MonthlyDisposable)
}

func TestAggregate_Affordability(t *testing.T) {
	a := newTestAggregator()

	classified := []model.ClassifiedTransaction{
		salaryCredit("2024-01-25", 2000),
		salaryCredit("2024-02-25", 2000),
		classifiedOn("2024-01-01", 700, "RENT", model.CategoryEssential, "rent", 1.0),
		classifiedOn("2024-02-01", 700, "RENT", model.CategoryEssential, "rent", 1.0),
		classifiedOn("2024-01-15", 200, "CAR FINANCE", model.CategoryDebt, "other_loans", 1.0),
		classifiedOn("2024-02-15", 200, "CAR FINANCE", model.CategoryDebt, "other_loans", 1.0),
	}

	req := model.LoanRequest{Amount: 500, Term: 4}
	bundle := a.Aggregate(classified, 2, req)
	afford := bundle.Affordability

	assert.InDelta(t, 10, afford.DebtToIncomeRatio, 0.01) // 200 of 2000
	assert.InDelta(t, 1100, afford.MonthlyDisposable, 0.01)
	assert.InDelta(t, 2000-700*1.1-200, afford.BufferedDisposable, 0.01)

	proposed := testProduct().MonthlyPayment(req.Amount, req.Term)
	assert.InDelta(t, proposed, afford.ProposedRepayment, 0.01)
	assert.InDelta(t, afford.MonthlyDisposable-proposed, afford.PostLoanDisposable, 0.01)

	// Plenty of headroom: the affordability ceiling is the product maximum.
	assert.InDelta(t, 1500, afford.MaxAffordable, 0.01)
}

func TestAggregate_MaxAffordableTight(t *testing.T) {
	a := newTestAggregator()

	// Buffered disposable of 80 leaves a 30/month payment after the buffer.
	classified := []model.ClassifiedTransaction{
		salaryCredit("2024-01-25", 1080),
		classifiedOn("2024-01-01", 1000, "RENT", model.CategoryEssential, "rent", 1.0),
	}

	bundle := a.Aggregate(classified, 1, model.LoanRequest{Amount: 500, Term: 4})
	afford := bundle.Affordability

	require.InDelta(t, 1080-1000*1.1, afford.BufferedDisposable, 0.01) // -20
	assert.Equal(t, 0.0, afford.MaxAffordable)
}

func TestAggregate_BalanceMetrics(t *testing.T) {
	a := newTestAggregator()

	// Reconstructed backwards from zero at the latest date: the applicant
	// spends into negative territory before the next salary lands.
	classified := []model.ClassifiedTransaction{
		salaryCredit("2024-03-01", 1000),
		classifiedOn("2024-03-05", 900, "RENT", model.CategoryEssential, "rent", 1.0),
		classifiedOn("2024-03-10", 200, "TESCO", model.CategoryEssential, "groceries", 1.0),
		salaryCredit("2024-03-15", 1000),
	}

	bundle := a.Aggregate(classified, 1, model.LoanRequest{})
	balance := bundle.Balance

	assert.Equal(t, 2, balance.DaysInOverdraft)
	assert.Equal(t, 1, balance.OverdraftEvents)
	assert.InDelta(t, -1000, balance.MinimumBalance, 0.01)
}

func TestAggregate_Deterministic(t *testing.T) {
	a := newTestAggregator()

	classified := []model.ClassifiedTransaction{
		salaryCredit("2024-01-25", 2500),
		salaryCredit("2024-02-25", 2500),
		debtPayment("2024-02-20", 120, "LENDING STREAM"),
		classifiedOn("2024-02-10", 150, "BET365", model.CategoryRisk, "gambling", 1.0),
	}
	req := model.LoanRequest{Amount: 400, Term: 3}

	first := a.Aggregate(classified, 2, req)
	for n := 0; n < 10; n++ {
		assert.Equal(t, first, a.Aggregate(classified, 2, req))
	}
}

func TestAggregate_DeterministicDecimalAmounts(t *testing.T) {
	a := newTestAggregator()

	// Amounts whose binary sums depend on addition order: the monthly income
	// totals and the essential subcategory totals are both accumulated from
	// maps, so an iteration-order sum would make reruns diverge.
	classified := []model.ClassifiedTransaction{
		salaryCredit("2024-01-25", 2400.01),
		salaryCredit("2024-02-25", 2399.97),
		salaryCredit("2024-03-25", 2400.05),
		classifiedOn("2024-02-03", 33.33, "GROCER", model.CategoryEssential, "groceries", 1.0),
		classifiedOn("2024-02-05", 12.07, "WATER CO", model.CategoryEssential, "utilities", 1.0),
		classifiedOn("2024-02-08", 99.98, "BUS PASS", model.CategoryEssential, "transport", 1.0),
		classifiedOn("2024-02-12", 45.01, "COVER PLC", model.CategoryEssential, "insurance", 1.0),
		classifiedOn("2024-02-15", 150.10, "COUNCIL", model.CategoryEssential, "council_tax", 1.0),
		housing("2024-02-01", 612.34, "rent"),
	}
	req := model.LoanRequest{Amount: 400, Term: 3}

	first := a.Aggregate(classified, 3, req)
	for n := 0; n < 200; n++ {
		again := a.Aggregate(classified, 3, req)
		assert.Equal(t, first.Income.StabilityScore, again.Income.StabilityScore)
		assert.Equal(t, first.Expense.MonthlyEssential, again.Expense.MonthlyEssential)
		assert.Equal(t, first, again)
	}
}
