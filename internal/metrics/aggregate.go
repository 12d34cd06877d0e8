// Package metrics sums classified transactions into the financial metrics
// the decision engine scores. Every "monthly" figure shares one divisor,
// the window's months of data, so income, expenses and debt are compared on
// the same time basis. All window anchors derive from the latest transaction
// date, never the wall clock, so a rerun on the same input is byte-identical.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/normalize"
)

// minRegularityAmount filters small credits out of the payment-day
// regularity calculation; pocket-money credits would swamp the salary signal.
const minRegularityAmount = 100.0

// neutralScore is reported for stability and regularity when the window is
// too short to measure either.
const neutralScore = 50.0

// Aggregator derives a MetricsBundle from one applicant's classified window.
type Aggregator struct {
	product config.ProductConfig
	windows config.MetricsConfig
}

// NewAggregator builds an aggregator from validated configuration.
func NewAggregator(product config.ProductConfig, windows config.MetricsConfig) *Aggregator {
	return &Aggregator{product: product, windows: windows}
}

// MonthsOfData counts the distinct calendar months spanned by the dated
// transactions, minimum 1. Transactions with malformed dates are classified
// normally but never counted here.
func MonthsOfData(classified []model.ClassifiedTransaction) int {
	months := make(map[string]struct{})
	for _, ct := range classified {
		if !ct.Transaction.HasDate() {
			continue
		}
		months[ct.Transaction.Date.Format("2006-01")] = struct{}{}
	}
	if len(months) == 0 {
		return 1
	}
	return len(months)
}

// Aggregate computes the full metrics bundle. The requested loan drives the
// proposed-repayment and post-loan figures.
func (a *Aggregator) Aggregate(classified []model.ClassifiedTransaction, months int, req model.LoanRequest) model.MetricsBundle {
	if months < 1 {
		months = 1
	}
	anchor := latestDate(classified)

	income := a.incomeMetrics(classified, months)
	expense := a.expenseMetrics(classified, months)
	debt := a.debtMetrics(classified, months, anchor)
	balance := a.balanceMetrics(classified)
	risk := a.riskMetrics(classified, income.TotalIncome, anchor)
	affordability := a.affordabilityMetrics(income, expense, debt, req)

	return model.MetricsBundle{
		Income:        income,
		Expense:       expense,
		Debt:          debt,
		Affordability: affordability,
		Balance:       balance,
		Risk:          risk,
		MonthsOfData:  months,
	}
}

func latestDate(classified []model.ClassifiedTransaction) time.Time {
	var latest time.Time
	for _, ct := range classified {
		if ct.Transaction.HasDate() && ct.Transaction.Date.After(latest) {
			latest = ct.Transaction.Date
		}
	}
	return latest
}

func (a *Aggregator) incomeMetrics(classified []model.ClassifiedTransaction, months int) model.IncomeMetrics {
	var stable, gig, other float64
	seen := make(map[string]bool)
	var sources []string

	for _, ct := range classified {
		if ct.Result.Category != model.CategoryIncome || !ct.Transaction.IsCredit() {
			continue
		}
		weighted := ct.Transaction.AbsAmount() * ct.Result.Weight
		if weighted == 0 {
			continue
		}
		switch ct.Result.Subcategory {
		case "salary", "benefits", "pension":
			stable += weighted
		case "gig_economy":
			gig += weighted
		default:
			other += weighted
		}
		if !seen[ct.Result.Subcategory] {
			seen[ct.Result.Subcategory] = true
			sources = append(sources, ct.Result.Subcategory)
		}
	}
	sort.Strings(sources)

	m := float64(months)
	total := stable + gig + other
	monthlyStable := stable / m
	monthlyGig := gig / m
	monthlyOther := other / m

	return model.IncomeMetrics{
		Sources:                sources,
		TotalIncome:            total,
		MonthlyIncome:          total / m,
		MonthlyStableIncome:    monthlyStable,
		MonthlyGigIncome:       monthlyGig,
		MonthlyOtherIncome:     monthlyOther,
		EffectiveMonthlyIncome: monthlyStable + monthlyGig + monthlyOther,
		StabilityScore:         incomeStability(classified),
		RegularityScore:        incomeRegularity(classified),
		Verified:               stable > 0,
	}
}

// incomeStability scores month-to-month income variation: 100 minus the
// coefficient of variation, clamped to [0,100].
func incomeStability(classified []model.ClassifiedTransaction) float64 {
	byMonth := make(map[string]float64)
	for _, ct := range classified {
		if ct.Result.Category != model.CategoryIncome || !ct.Transaction.IsCredit() || !ct.Transaction.HasDate() {
			continue
		}
		weighted := ct.Transaction.AbsAmount() * ct.Result.Weight
		if weighted == 0 {
			continue
		}
		byMonth[ct.Transaction.Date.Format("2006-01")] += weighted
	}
	if len(byMonth) < 2 {
		return neutralScore
	}

	// Sum in sorted-month order: float addition is not associative, and map
	// iteration order would make reruns on identical input diverge.
	monthKeys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		monthKeys = append(monthKeys, k)
	}
	sort.Strings(monthKeys)

	values := make([]float64, 0, len(monthKeys))
	var sum float64
	for _, k := range monthKeys {
		values = append(values, byMonth[k])
		sum += byMonth[k]
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	var sqSum float64
	for _, v := range values {
		sqSum += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(sqSum / float64(len(values)-1))
	cv := stdDev / mean * 100

	return clamp(100-cv, 0, 100)
}

// incomeRegularity scores payment-day consistency from the standard
// deviation of calendar days income arrives on.
func incomeRegularity(classified []model.ClassifiedTransaction) float64 {
	var days []float64
	for _, ct := range classified {
		if ct.Result.Category != model.CategoryIncome || !ct.Transaction.IsCredit() || !ct.Transaction.HasDate() {
			continue
		}
		if ct.Transaction.AbsAmount() < minRegularityAmount || ct.Result.Weight == 0 {
			continue
		}
		days = append(days, float64(ct.Transaction.Date.Day()))
	}
	if len(days) < 2 {
		return neutralScore
	}

	var sum float64
	for _, d := range days {
		sum += d
	}
	mean := sum / float64(len(days))
	var sqSum float64
	for _, d := range days {
		sqSum += (d - mean) * (d - mean)
	}
	stdDev := math.Sqrt(sqSum / float64(len(days)-1))

	switch {
	case stdDev <= 2:
		return 100
	case stdDev <= 5:
		return 80
	case stdDev <= 10:
		return 60
	case stdDev <= 15:
		return 40
	default:
		return 20
	}
}

func (a *Aggregator) expenseMetrics(classified []model.ClassifiedTransaction, months int) model.ExpenseMetrics {
	essential := make(map[string]float64)
	var discretionary float64

	for _, ct := range classified {
		if ct.Transaction.IsCredit() {
			continue
		}
		switch ct.Result.Category {
		case model.CategoryEssential:
			essential[ct.Result.Subcategory] += ct.Transaction.AbsAmount()
		case model.CategoryExpense:
			discretionary += ct.Transaction.AbsAmount()
		}
	}

	m := float64(months)
	breakdown := make(map[string]float64, len(essential))
	for sub, total := range essential {
		breakdown[sub] = total / m
	}

	subs := make([]string, 0, len(breakdown))
	for sub := range breakdown {
		subs = append(subs, sub)
	}
	sort.Strings(subs)

	// An applicant pays rent or a mortgage, not both; double-counting a
	// house move would overstate essentials. Summed in sorted-subcategory
	// order so the total is the same on every run.
	housing := math.Max(breakdown["rent"], breakdown["mortgage"])
	essentialTotal := housing
	for _, sub := range subs {
		if sub == "rent" || sub == "mortgage" {
			continue
		}
		essentialTotal += breakdown[sub]
	}

	return model.ExpenseMetrics{
		EssentialBreakdown:   breakdown,
		MonthlyHousing:       housing,
		MonthlyEssential:     essentialTotal,
		MonthlyDiscretionary: discretionary / m,
	}
}

func (a *Aggregator) debtMetrics(classified []model.ClassifiedTransaction, months int, anchor time.Time) model.DebtMetrics {
	var total, hcstc float64
	lenders := make(map[string]bool)
	lenders90 := make(map[string]bool)
	dcas := make(map[string]bool)

	cutoff90 := anchor.AddDate(0, 0, -a.windows.HCSTCLookbackDays)

	for _, ct := range classified {
		txn := ct.Transaction
		if ct.Result.Category == model.CategoryRisk && ct.Result.Subcategory == "debt_collection" {
			dcas[normalize.GroupingKey(txn.Description)] = true
			continue
		}
		if ct.Result.Category != model.CategoryDebt || txn.IsCredit() {
			continue
		}
		total += txn.AbsAmount()
		if ct.Result.Subcategory != "hcstc_payday" {
			continue
		}
		hcstc += txn.AbsAmount()

		name := normalize.Normalize(txn.Description + " " + txn.MerchantName)
		lender, ok := normalize.CanonicalLender(name)
		if !ok {
			lender = normalize.GroupingKey(txn.Description)
		}
		lenders[lender] = true
		if txn.HasDate() && !txn.Date.Before(cutoff90) {
			lenders90[lender] = true
		}
	}

	m := float64(months)
	return model.DebtMetrics{
		MonthlyDebtPayments:  total / m,
		MonthlyHCSTCPayments: hcstc / m,
		ActiveHCSTCLenders:   len(lenders),
		ActiveHCSTCLenders90: len(lenders90),
		DistinctDCAs:         len(dcas),
	}
}

// balanceMetrics reconstructs a running balance by replaying transactions
// backwards from zero at the latest date. Absolute levels are therefore
// relative, but overdraft day counts and balance spread are still
// meaningful for conduct scoring.
func (a *Aggregator) balanceMetrics(classified []model.ClassifiedTransaction) model.BalanceMetrics {
	dated := make([]model.Transaction, 0, len(classified))
	for _, ct := range classified {
		if ct.Transaction.HasDate() {
			dated = append(dated, ct.Transaction)
		}
	}
	if len(dated) == 0 {
		return model.BalanceMetrics{}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.After(dated[j].Date)
	})

	// Walk most-recent-first: the balance on a day is the balance before
	// that day's transactions are undone.
	var (
		balance    float64
		dailyOrder []string
		daily      = make(map[string]float64)
	)
	for _, txn := range dated {
		day := txn.Date.Format("2006-01-02")
		if _, ok := daily[day]; !ok {
			daily[day] = balance
			dailyOrder = append(dailyOrder, day)
		}
		// Undo the transaction: credits are negative, so adding the amount
		// steps the balance back in time.
		balance += txn.Amount
	}

	var (
		sum       float64
		minBal    = math.Inf(1)
		days      int
		crossings int
		prev      = math.Inf(1)
	)
	// dailyOrder runs newest to oldest; reverse for chronological crossing
	// counts.
	for i := len(dailyOrder) - 1; i >= 0; i-- {
		b := daily[dailyOrder[i]]
		sum += b
		if b < minBal {
			minBal = b
		}
		if b < 0 {
			days++
			if prev >= 0 && !math.IsInf(prev, 1) {
				crossings++
			}
		}
		prev = b
	}

	return model.BalanceMetrics{
		AverageBalance:  sum / float64(len(dailyOrder)),
		MinimumBalance:  minBal,
		DaysInOverdraft: days,
		OverdraftEvents: crossings,
	}
}

func (a *Aggregator) riskMetrics(classified []model.ClassifiedTransaction, totalIncome float64, anchor time.Time) model.RiskMetrics {
	cutoff45 := anchor.AddDate(0, 0, -a.windows.FailedPaymentLookbackDays)
	cutoff90 := anchor.AddDate(0, 0, -a.windows.BankChargeLookbackDays)

	var (
		gamblingTotal float64
		failed        int
		failed45      int
		bankCharges   int
		bankCharges90 int
	)
	for _, ct := range classified {
		if ct.Result.Category != model.CategoryRisk {
			continue
		}
		txn := ct.Transaction
		switch ct.Result.Subcategory {
		case "gambling":
			if !txn.IsCredit() {
				gamblingTotal += txn.AbsAmount()
			}
		case "failed_payments":
			failed++
			if txn.HasDate() && !txn.Date.Before(cutoff45) {
				failed45++
			}
		case "bank_charges":
			bankCharges++
			if txn.HasDate() && !txn.Date.Before(cutoff90) {
				bankCharges90++
			}
		}
	}

	var gamblingPct float64
	if totalIncome > 0 {
		gamblingPct = gamblingTotal / totalIncome * 100
	}

	return model.RiskMetrics{
		GamblingTotal:      gamblingTotal,
		GamblingPercentage: gamblingPct,
		FailedPayments:     failed,
		FailedPayments45:   failed45,
		BankCharges:        bankCharges,
		BankCharges90:      bankCharges90,
	}
}

func (a *Aggregator) affordabilityMetrics(income model.IncomeMetrics, expense model.ExpenseMetrics, debt model.DebtMetrics, req model.LoanRequest) model.AffordabilityMetrics {
	effective := income.EffectiveMonthlyIncome
	buffered := expense.MonthlyEssential * a.product.ExpenseShockBuffer

	// Zero income yields the defined sentinels, never a division.
	var dti, essentialRatio float64
	if effective > 0 {
		dti = debt.MonthlyDebtPayments / effective * 100
		essentialRatio = buffered / effective * 100
	}

	disposable := effective - expense.MonthlyEssential - debt.MonthlyDebtPayments
	bufferedDisposable := effective - buffered - debt.MonthlyDebtPayments

	proposed := a.product.MonthlyPayment(req.Amount, req.Term)

	return model.AffordabilityMetrics{
		DebtToIncomeRatio:  dti,
		MonthlyDisposable:  disposable,
		BufferedDisposable: bufferedDisposable,
		ProposedRepayment:  proposed,
		PostLoanDisposable: disposable - proposed,
		MaxAffordable:      a.maxAffordable(bufferedDisposable, req.Term),
		EssentialRatio:     essentialRatio,
	}
}

// maxAffordable solves the repayment formula for principal given the
// largest sustainable monthly payment.
func (a *Aggregator) maxAffordable(bufferedDisposable float64, term int) float64 {
	if term <= 0 {
		return 0
	}
	maxPayment := bufferedDisposable - a.product.MinDisposableBuffer
	if maxPayment <= 0 {
		return 0
	}

	monthlyRate := a.product.DailyInterestRate * a.product.DaysPerMonth
	interestFactor := 1 + monthlyRate*float64(term)
	// The total-cost cap bounds interest at TotalCostCap x principal.
	if ceiling := 1 + a.product.TotalCostCap; interestFactor > ceiling {
		interestFactor = ceiling
	}

	maxAmount := maxPayment * float64(term) / interestFactor
	return math.Min(maxAmount, a.product.MaxLoanAmount)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
