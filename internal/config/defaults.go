package config

import "github.com/spf13/viper"

// setDefaults registers the built-in policy. Any key can be overridden from
// the YAML config file or an UNDERWRITE_* environment variable.
func setDefaults() {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("database.path", "")

	// Behavioral income detector tuning.
	viper.SetDefault("detector.min_occurrences", 2)
	viper.SetDefault("detector.amount_tolerance", 0.30)
	viper.SetDefault("detector.tight_tolerance", 0.05)
	viper.SetDefault("detector.day_of_month_tolerance", 3)
	viper.SetDefault("detector.min_recurring_amount", 50.0)
	viper.SetDefault("detector.employer_min_amount", 200.0)
	viper.SetDefault("detector.large_credit_amount", 500.0)
	viper.SetDefault("detector.interval_bands", []map[string]any{
		{"name": "weekly", "min_days": 5, "max_days": 9},
		{"name": "fortnightly", "min_days": 11, "max_days": 17},
		{"name": "monthly", "min_days": 25, "max_days": 35},
		{"name": "quarterly", "min_days": 80, "max_days": 100},
	})

	viper.SetDefault("classify.behavioral_threshold", 0.70)
	viper.SetDefault("classify.default_confidence", 0.30)

	viper.SetDefault("metrics.hcstc_lookback_days", 90)
	viper.SetDefault("metrics.failed_payment_lookback_days", 45)
	viper.SetDefault("metrics.bank_charge_lookback_days", 90)

	// Score bands. Maximum possible score is 100.
	viper.SetDefault("scoring.approve_min", 70.0)
	viper.SetDefault("scoring.refer_min", 45.0)
	viper.SetDefault("scoring.score_floor", 0.0)
	viper.SetDefault("scoring.score_ceiling", 100.0)

	// Component weights (totals sum to the score ceiling).
	viper.SetDefault("scoring.affordability.total", 45.0)
	viper.SetDefault("scoring.affordability.min", 0.0)
	viper.SetDefault("scoring.affordability.parts", map[string]float64{
		"dti_ratio":              18,
		"disposable_income":      15,
		"post_loan_affordability": 12,
	})
	viper.SetDefault("scoring.income_quality.total", 25.0)
	viper.SetDefault("scoring.income_quality.min", 0.0)
	viper.SetDefault("scoring.income_quality.parts", map[string]float64{
		"income_stability":    12,
		"income_regularity":   8,
		"income_verification": 5,
	})
	viper.SetDefault("scoring.account_conduct.total", 20.0)
	viper.SetDefault("scoring.account_conduct.min", 0.0)
	viper.SetDefault("scoring.account_conduct.parts", map[string]float64{
		"failed_payments":    8,
		"overdraft_usage":    7,
		"balance_management": 5,
	})
	// Risk is the one component allowed to go negative: flat penalties can
	// outweigh its banded points.
	viper.SetDefault("scoring.risk_indicators.total", 10.0)
	viper.SetDefault("scoring.risk_indicators.min", -15.0)
	viper.SetDefault("scoring.risk_indicators.parts", map[string]float64{
		"gambling_activity": 5,
		"hcstc_history":     5,
	})

	viper.SetDefault("scoring.dti_bands", []map[string]any{
		{"max": 30, "points": 18},
		{"max": 40, "points": 15},
		{"max": 50, "points": 12},
		{"max": 60, "points": 8},
		{"max": 70, "points": 4},
		{"max": 100, "points": 0},
	})
	viper.SetDefault("scoring.disposable_bands", []map[string]any{
		{"min": 200, "points": 15},
		{"min": 150, "points": 13},
		{"min": 100, "points": 10},
		{"min": 50, "points": 6},
		{"min": 25, "points": 3},
		{"min": 0, "points": 0},
	})
	viper.SetDefault("scoring.stability_bands", []map[string]any{
		{"min": 90, "points": 12},
		{"min": 78, "points": 10},
		{"min": 66, "points": 7},
		{"min": 50, "points": 4},
		{"min": 0, "points": 0},
	})
	viper.SetDefault("scoring.gambling_bands", []map[string]any{
		{"max": 0, "points": 5},
		{"max": 2, "points": 3},
		{"max": 5, "points": 0},
		{"max": 10, "points": -3},
		{"max": 100, "points": -5},
	})

	viper.SetDefault("scoring.gambling_penalty_over", 5.0)
	viper.SetDefault("scoring.gambling_penalty", -5.0)
	viper.SetDefault("scoring.hcstc_penalty_from", 2)
	viper.SetDefault("scoring.hcstc_penalty", -10.0)

	viper.SetDefault("scoring.rules", []map[string]any{
		{
			"name":        "min_monthly_income",
			"threshold":   1500,
			"action":      "REFER",
			"description": "Minimum monthly income required",
		},
		{
			"name":        "no_verifiable_income",
			"threshold":   300,
			"action":      "REFER",
			"description": "No verifiable income source and income below threshold",
		},
		{
			"name":          "max_active_hcstc_lenders",
			"threshold":     6,
			"action":        "DECLINE",
			"lookback_days": 90,
			"description":   "Maximum active HCSTC lenders in lookback period",
		},
		{
			"name":        "max_gambling_percentage",
			"threshold":   15,
			"action":      "REFER",
			"description": "Maximum percentage of income spent on gambling",
		},
		{
			"name":        "min_post_loan_disposable",
			"threshold":   50,
			"action":      "REFER",
			"description": "Minimum disposable income after loan payment",
		},
		{
			"name":          "max_failed_payments",
			"threshold":     2,
			"action":        "REFER",
			"lookback_days": 45,
			"description":   "Maximum failed payments in lookback period",
		},
		{
			"name":        "max_dca_count",
			"threshold":   4,
			"action":      "REFER",
			"description": "Maximum distinct debt collection agencies",
		},
		{
			"name":        "max_dti_with_new_loan",
			"threshold":   85,
			"action":      "REFER",
			"description": "Maximum debt-to-income ratio including new loan",
		},
		{
			"name":          "max_bank_charges",
			"threshold":     2,
			"action":        "REFER",
			"lookback_days": 90,
			"description":   "Maximum bank charges in lookback period",
		},
	})

	viper.SetDefault("scoring.score_limits", []map[string]any{
		{"min_score": 75, "max_amount": 1500, "max_term": 6},
		{"min_score": 65, "max_amount": 1200, "max_term": 6},
		{"min_score": 55, "max_amount": 800, "max_term": 5},
		{"min_score": 45, "max_amount": 500, "max_term": 4},
		{"min_score": 35, "max_amount": 300, "max_term": 3},
		{"min_score": 0, "max_amount": 0, "max_term": 0},
	})

	viper.SetDefault("product.min_loan_amount", 200.0)
	viper.SetDefault("product.max_loan_amount", 1500.0)
	viper.SetDefault("product.available_terms", []int{3, 4, 5, 6})
	viper.SetDefault("product.daily_interest_rate", 0.008)
	viper.SetDefault("product.total_cost_cap", 1.0)
	viper.SetDefault("product.days_per_month", 30.4)
	viper.SetDefault("product.expense_shock_buffer", 1.1)
	viper.SetDefault("product.min_disposable_buffer", 50.0)
}
