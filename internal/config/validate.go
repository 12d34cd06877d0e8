package config

import (
	"fmt"

	"github.com/ledgerline/underwrite/internal/common"
)

// requiredRules must all be present: the rule evaluator dispatches on these
// names and has no fallback threshold for a missing one.
var requiredRules = []string{
	"min_monthly_income",
	"no_verifiable_income",
	"max_active_hcstc_lenders",
	"max_gambling_percentage",
	"min_post_loan_disposable",
	"max_failed_payments",
	"max_dca_count",
	"max_dti_with_new_loan",
}

// Validate checks the configuration for completeness and internal
// consistency. A failure here is fatal at initialization.
func (c *Config) Validate() error {
	if err := c.Detector.validate(); err != nil {
		return err
	}
	if err := c.Classify.validate(); err != nil {
		return err
	}
	if err := c.Scoring.validate(); err != nil {
		return err
	}
	if err := c.Product.validate(); err != nil {
		return err
	}
	return nil
}

func (d *DetectorConfig) validate() error {
	if d.MinOccurrences < 2 {
		return common.NewConfigError("detector.min_occurrences", "must be at least 2")
	}
	if d.AmountTolerance <= 0 || d.AmountTolerance >= 1 {
		return common.NewConfigError("detector.amount_tolerance", "must be in (0,1)")
	}
	if d.TightTolerance <= 0 || d.TightTolerance > d.AmountTolerance {
		return common.NewConfigError("detector.tight_tolerance", "must be in (0, amount_tolerance]")
	}
	if len(d.IntervalBands) == 0 {
		return common.NewConfigError("detector.interval_bands", "at least one band required")
	}
	for _, b := range d.IntervalBands {
		if b.Name == "" || b.MinDays <= 0 || b.MaxDays < b.MinDays {
			return common.NewConfigError("detector.interval_bands",
				fmt.Sprintf("band %q has invalid day range [%d,%d]", b.Name, b.MinDays, b.MaxDays))
		}
	}
	return nil
}

func (c *ClassifyConfig) validate() error {
	if c.BehavioralThreshold <= 0 || c.BehavioralThreshold > 1 {
		return common.NewConfigError("classify.behavioral_threshold", "must be in (0,1]")
	}
	if c.DefaultConfidence < 0 || c.DefaultConfidence > 1 {
		return common.NewConfigError("classify.default_confidence", "must be in [0,1]")
	}
	return nil
}

func (s *ScoringConfig) validate() error {
	if s.ScoreCeil <= s.ScoreFloor {
		return common.NewConfigError("scoring.score_ceiling", "must exceed score_floor")
	}
	if s.ApproveMin <= s.ReferMin {
		return common.NewConfigError("scoring.approve_min", "must exceed refer_min")
	}
	if s.ReferMin <= s.ScoreFloor {
		return common.NewConfigError("scoring.refer_min", "must exceed score_floor")
	}

	for _, cw := range []struct {
		key string
		w   ComponentWeights
	}{
		{"scoring.affordability", s.Affordability},
		{"scoring.income_quality", s.IncomeQuality},
		{"scoring.account_conduct", s.AccountConduct},
		{"scoring.risk_indicators", s.RiskIndicators},
	} {
		if cw.w.Total <= 0 {
			return common.NewConfigError(cw.key+".total", "must be positive")
		}
		if cw.w.Min > 0 {
			return common.NewConfigError(cw.key+".min", "component floor cannot be positive")
		}
		if len(cw.w.Parts) == 0 {
			return common.NewConfigError(cw.key+".parts", "sub-score weights required")
		}
	}

	if err := maxBandsMonotonic("scoring.dti_bands", s.DTIBands); err != nil {
		return err
	}
	if err := maxBandsMonotonic("scoring.gambling_bands", s.GamblingBands); err != nil {
		return err
	}
	if err := minBandsMonotonic("scoring.disposable_bands", s.DisposableBands); err != nil {
		return err
	}
	if err := minBandsMonotonic("scoring.stability_bands", s.StabilityBands); err != nil {
		return err
	}

	for _, name := range requiredRules {
		if _, err := s.Rule(name); err != nil {
			return err
		}
	}
	for _, r := range s.Rules {
		if r.Action != ActionDecline && r.Action != ActionRefer {
			return common.NewConfigError("scoring.rules."+r.Name,
				fmt.Sprintf("unknown action %q", r.Action))
		}
	}

	if len(s.ScoreLimits) == 0 {
		return common.NewConfigError("scoring.score_limits", "at least one tier required")
	}
	for i := 1; i < len(s.ScoreLimits); i++ {
		if s.ScoreLimits[i].MinScore >= s.ScoreLimits[i-1].MinScore {
			return common.NewConfigError("scoring.score_limits", "tiers must descend by min_score")
		}
	}
	return nil
}

// maxBandsMonotonic checks lower-is-better tables: ascending ceilings,
// non-increasing points.
func maxBandsMonotonic(key string, bands []MaxBand) error {
	if len(bands) == 0 {
		return common.NewConfigError(key, "band table required")
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Max <= bands[i-1].Max {
			return common.NewConfigError(key, "band ceilings must ascend")
		}
		if bands[i].Points > bands[i-1].Points {
			return common.NewConfigError(key, "points must not increase with worse values")
		}
	}
	return nil
}

// minBandsMonotonic checks higher-is-better tables: descending floors,
// non-increasing points.
func minBandsMonotonic(key string, bands []MinBand) error {
	if len(bands) == 0 {
		return common.NewConfigError(key, "band table required")
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min >= bands[i-1].Min {
			return common.NewConfigError(key, "band floors must descend")
		}
		if bands[i].Points > bands[i-1].Points {
			return common.NewConfigError(key, "points must not increase with worse values")
		}
	}
	return nil
}

func (p *ProductConfig) validate() error {
	if p.MinLoanAmount <= 0 || p.MaxLoanAmount < p.MinLoanAmount {
		return common.NewConfigError("product.max_loan_amount", "must be at least min_loan_amount")
	}
	if len(p.AvailableTerms) == 0 {
		return common.NewConfigError("product.available_terms", "at least one term required")
	}
	for _, t := range p.AvailableTerms {
		if t <= 0 {
			return common.NewConfigError("product.available_terms", "terms must be positive months")
		}
	}
	if p.DailyInterestRate <= 0 {
		return common.NewConfigError("product.daily_interest_rate", "must be positive")
	}
	if p.TotalCostCap <= 0 {
		return common.NewConfigError("product.total_cost_cap", "must be positive")
	}
	if p.DaysPerMonth <= 0 {
		return common.NewConfigError("product.days_per_month", "must be positive")
	}
	if p.ExpenseShockBuffer < 1 {
		return common.NewConfigError("product.expense_shock_buffer", "must be at least 1.0")
	}
	if p.MinDisposableBuffer < 0 {
		return common.NewConfigError("product.min_disposable_buffer", "cannot be negative")
	}
	return nil
}
