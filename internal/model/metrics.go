package model

// IncomeMetrics summarizes classified income over the analysis window.
// Monthly figures divide by the window's months of data.
type IncomeMetrics struct {
	Sources                []string `json:"sources,omitempty"`
	TotalIncome            float64  `json:"total_income"`
	MonthlyIncome          float64  `json:"monthly_income"`
	MonthlyStableIncome    float64  `json:"monthly_stable_income"` // salary + benefits + pension, weighted
	MonthlyGigIncome       float64  `json:"monthly_gig_income"`    // already discounted by income weight
	MonthlyOtherIncome     float64  `json:"monthly_other_income"`
	EffectiveMonthlyIncome float64  `json:"effective_monthly_income"`
	StabilityScore         float64  `json:"stability_score"`  // 0-100
	RegularityScore        float64  `json:"regularity_score"` // 0-100
	Verified               bool     `json:"verified"`         // At least one stable income source present
}

// ExpenseMetrics summarizes classified spending.
type ExpenseMetrics struct {
	EssentialBreakdown   map[string]float64 `json:"essential_breakdown,omitempty"`
	MonthlyHousing       float64            `json:"monthly_housing"` // rent OR mortgage, whichever is larger
	MonthlyEssential     float64            `json:"monthly_essential"`
	MonthlyDiscretionary float64            `json:"monthly_discretionary"`
}

// DebtMetrics summarizes existing credit commitments.
type DebtMetrics struct {
	MonthlyDebtPayments  float64 `json:"monthly_debt_payments"`
	MonthlyHCSTCPayments float64 `json:"monthly_hcstc_payments"`
	ActiveHCSTCLenders   int     `json:"active_hcstc_lenders"`    // distinct canonical lenders, all time
	ActiveHCSTCLenders90 int     `json:"active_hcstc_lenders_90"` // distinct canonical lenders, last 90 days
	DistinctDCAs         int     `json:"distinct_dcas"`           // distinct debt collection agencies
}

// AffordabilityMetrics derives the applicant's capacity for a new loan.
// MonthlyDisposable is the plain income-minus-outgoings figure;
// BufferedDisposable applies the configured essential-expense stress buffer
// and drives internal affordability checks.
type AffordabilityMetrics struct {
	DebtToIncomeRatio  float64 `json:"debt_to_income_ratio"` // percentage; 0 when income is 0
	MonthlyDisposable  float64 `json:"monthly_disposable"`
	BufferedDisposable float64 `json:"buffered_disposable"`
	ProposedRepayment  float64 `json:"proposed_repayment"`
	PostLoanDisposable float64 `json:"post_loan_disposable"`
	MaxAffordable      float64 `json:"max_affordable"`
	EssentialRatio     float64 `json:"essential_ratio"` // percentage of income on buffered essentials
}

// BalanceMetrics summarizes reconstructed account balance behaviour.
type BalanceMetrics struct {
	AverageBalance  float64 `json:"average_balance"`
	MinimumBalance  float64 `json:"minimum_balance"`
	DaysInOverdraft int     `json:"days_in_overdraft"`
	OverdraftEvents int     `json:"overdraft_events"` // times the balance crossed below zero
}

// RiskMetrics summarizes risk-indicator activity.
type RiskMetrics struct {
	GamblingTotal      float64 `json:"gambling_total"`
	GamblingPercentage float64 `json:"gambling_percentage"` // of total income; 0 when income is 0
	FailedPayments     int     `json:"failed_payments"`
	FailedPayments45   int     `json:"failed_payments_45"` // last 45 days
	BankCharges        int     `json:"bank_charges"`
	BankCharges90      int     `json:"bank_charges_90"` // last 90 days
}

// MetricsBundle is the full metrics output for one applicant, derived fresh
// from a classification run and never mutated after construction.
type MetricsBundle struct {
	Income        IncomeMetrics        `json:"income"`
	Expense       ExpenseMetrics       `json:"expense"`
	Debt          DebtMetrics          `json:"debt"`
	Affordability AffordabilityMetrics `json:"affordability"`
	Balance       BalanceMetrics       `json:"balance"`
	Risk          RiskMetrics          `json:"risk"`
	MonthsOfData  int                  `json:"months_of_data"`
}
