// Package scoring implements the decision engine: ordered rule evaluation,
// four capped score components, score-band decisions and bounded offer
// construction. Every threshold it applies comes from validated
// configuration; nothing here hardcodes policy.
package scoring

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/model"
)

// Engine scores applications against an immutable policy.
type Engine struct {
	cfg     config.ScoringConfig
	product config.ProductConfig
	logger  *slog.Logger
}

// NewEngine builds a decision engine from validated configuration.
func NewEngine(cfg config.ScoringConfig, product config.ProductConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, product: product, logger: logger}
}

// Score produces the complete decision for one applicant's metrics bundle.
// A fired DECLINE rule is terminal: the score is forced to the floor and no
// components are computed. REFER rules accumulate and can only make the
// outcome more conservative.
func (e *Engine) Score(bundle model.MetricsBundle, req model.LoanRequest, ref string) model.ScoringResult {
	result := model.ScoringResult{Reference: ref}

	declineReasons, referReasons := e.evaluateRules(bundle, req)
	if len(declineReasons) > 0 {
		result.Decision = model.DecisionDecline
		result.Score = e.cfg.ScoreFloor
		result.DeclineReasons = declineReasons
		result.ReferReasons = referReasons
		e.logger.Info("application declined by rule",
			"reference", ref, "reasons", declineReasons)
		return result
	}

	breakdown := e.computeBreakdown(bundle)
	result.Breakdown = breakdown
	result.Score = breakdown.Total
	result.ReferReasons = referReasons

	switch {
	case breakdown.Total >= e.cfg.ApproveMin:
		result.Decision = model.DecisionApprove
	case breakdown.Total >= e.cfg.ReferMin:
		result.Decision = model.DecisionRefer
	default:
		result.Decision = model.DecisionDecline
		result.DeclineReasons = append(result.DeclineReasons,
			fmt.Sprintf("Score %.1f below minimum %.1f", breakdown.Total, e.cfg.ReferMin))
	}

	// Rules only tighten outcomes: an accumulated referral reason demotes
	// an approval to manual review.
	if result.Decision == model.DecisionApprove && len(referReasons) > 0 {
		result.Decision = model.DecisionRefer
	}

	if result.Decision == model.DecisionApprove {
		offer := e.buildOffer(breakdown.Total, bundle.Affordability, req)
		result.Offer = &offer
	}

	e.logger.Info("application scored",
		"reference", ref,
		"decision", result.Decision,
		"score", result.Score)
	return result
}

// evaluateRules walks the configured rule list in order and dispatches each
// named rule to its metric. The walk stops at the first fired DECLINE; rules
// after it are never evaluated. An unknown rule name is a configuration
// drift problem; it is logged and skipped rather than guessed at.
func (e *Engine) evaluateRules(bundle model.MetricsBundle, req model.LoanRequest) (decline, refer []string) {
	record := func(rule config.Rule, reason string) {
		if rule.Action == config.ActionDecline {
			decline = append(decline, reason)
		} else {
			refer = append(refer, reason)
		}
	}

	income := bundle.Income
	debt := bundle.Debt
	afford := bundle.Affordability
	risk := bundle.Risk

	for _, rule := range e.cfg.Rules {
		switch rule.Name {
		case "min_monthly_income":
			if income.EffectiveMonthlyIncome < rule.Threshold {
				record(rule, fmt.Sprintf("Monthly income (%.2f) below minimum (%.0f)",
					income.EffectiveMonthlyIncome, rule.Threshold))
			}
		case "no_verifiable_income":
			if !income.Verified && income.EffectiveMonthlyIncome < rule.Threshold {
				record(rule, "No verifiable income source identified")
			}
		case "max_active_hcstc_lenders":
			if float64(debt.ActiveHCSTCLenders90) > rule.Threshold {
				record(rule, fmt.Sprintf("Active HCSTC with %d lenders in last %d days (maximum %.0f)",
					debt.ActiveHCSTCLenders90, rule.LookbackDays, rule.Threshold))
			}
		case "max_gambling_percentage":
			if risk.GamblingPercentage > rule.Threshold {
				record(rule, fmt.Sprintf("Gambling (%.1f%%) exceeds maximum (%.0f%%)",
					risk.GamblingPercentage, rule.Threshold))
			}
		case "min_post_loan_disposable":
			if afford.PostLoanDisposable < rule.Threshold {
				record(rule, fmt.Sprintf("Post-loan disposable (%.2f) below minimum (%.0f)",
					afford.PostLoanDisposable, rule.Threshold))
			}
		case "max_failed_payments":
			if float64(risk.FailedPayments45) > rule.Threshold {
				record(rule, fmt.Sprintf("Failed payments (%d) in last %d days exceed maximum (%.0f)",
					risk.FailedPayments45, rule.LookbackDays, rule.Threshold))
			}
		case "max_dca_count":
			if float64(debt.DistinctDCAs) > rule.Threshold {
				record(rule, fmt.Sprintf("Active debt collection with %d agencies (maximum %.0f)",
					debt.DistinctDCAs, rule.Threshold))
			}
		case "max_dti_with_new_loan":
			if income.EffectiveMonthlyIncome > 0 {
				projected := (debt.MonthlyDebtPayments + afford.ProposedRepayment) /
					income.EffectiveMonthlyIncome * 100
				if projected > rule.Threshold {
					record(rule, fmt.Sprintf("Projected DTI (%.1f%%) would exceed maximum (%.0f%%)",
						projected, rule.Threshold))
				}
			}
		case "max_bank_charges":
			if float64(risk.BankCharges90) > rule.Threshold {
				record(rule, fmt.Sprintf("Bank charges (%d) in last %d days exceed maximum (%.0f)",
					risk.BankCharges90, rule.LookbackDays, rule.Threshold))
			}
		default:
			e.logger.Warn("skipping unrecognized rule", "rule", rule.Name)
		}
		if len(decline) > 0 {
			return decline, refer
		}
	}
	return decline, refer
}

func (e *Engine) computeBreakdown(bundle model.MetricsBundle) model.ScoreBreakdown {
	breakdown := model.ScoreBreakdown{
		Affordability:  e.scoreAffordability(bundle.Affordability),
		IncomeQuality:  e.scoreIncomeQuality(bundle.Income),
		AccountConduct: e.scoreAccountConduct(bundle.Risk, bundle.Balance),
		RiskIndicators: e.scoreRiskIndicators(bundle.Risk, bundle.Debt),
	}
	breakdown.Total = clamp(
		breakdown.Affordability.Score+
			breakdown.IncomeQuality.Score+
			breakdown.AccountConduct.Score+
			breakdown.RiskIndicators.Score,
		e.cfg.ScoreFloor, e.cfg.ScoreCeil)
	return breakdown
}

func (e *Engine) scoreAffordability(afford model.AffordabilityMetrics) model.ComponentScore {
	w := e.cfg.Affordability

	dtiPoints := scoreMaxBands(afford.DebtToIncomeRatio, e.cfg.DTIBands)
	dispPoints := scoreMinBands(afford.MonthlyDisposable, e.cfg.DisposableBands)

	// Post-loan headroom scales linearly up to its weight, with full marks
	// at the product's minimum disposable buffer.
	postWeight := w.Parts["post_loan_affordability"]
	scale := e.product.MinDisposableBuffer
	if scale <= 0 {
		scale = 1
	}
	postPoints := clamp(afford.PostLoanDisposable/scale*postWeight, 0, postWeight)

	return componentScore(w, map[string]float64{
		"dti_ratio":               dtiPoints,
		"disposable_income":       dispPoints,
		"post_loan_affordability": postPoints,
	}, nil)
}

func (e *Engine) scoreIncomeQuality(income model.IncomeMetrics) model.ComponentScore {
	w := e.cfg.IncomeQuality

	stabilityPoints := scoreMinBands(income.StabilityScore, e.cfg.StabilityBands)

	regWeight := w.Parts["income_regularity"]
	regPoints := clamp(income.RegularityScore/100*regWeight, 0, regWeight)

	verWeight := w.Parts["income_verification"]
	verPoints := verWeight * 0.4
	if income.Verified {
		verPoints = verWeight
	}

	return componentScore(w, map[string]float64{
		"income_stability":    stabilityPoints,
		"income_regularity":   regPoints,
		"income_verification": verPoints,
	}, nil)
}

func (e *Engine) scoreAccountConduct(risk model.RiskMetrics, balance model.BalanceMetrics) model.ComponentScore {
	w := e.cfg.AccountConduct

	failedWeight := w.Parts["failed_payments"]
	failedPoints := math.Max(0, failedWeight-float64(risk.FailedPayments)*failedWeight/4)

	odWeight := w.Parts["overdraft_usage"]
	var odPoints float64
	switch {
	case balance.DaysInOverdraft == 0:
		odPoints = odWeight
	case balance.DaysInOverdraft <= 5:
		odPoints = odWeight * 5 / 7
	case balance.DaysInOverdraft <= 15:
		odPoints = odWeight * 3 / 7
	}

	balWeight := w.Parts["balance_management"]
	var balPoints float64
	switch {
	case balance.AverageBalance >= 500:
		balPoints = balWeight
	case balance.AverageBalance >= 200:
		balPoints = balWeight * 3 / 5
	case balance.AverageBalance >= 0:
		balPoints = balWeight * 1 / 5
	}

	return componentScore(w, map[string]float64{
		"failed_payments":    failedPoints,
		"overdraft_usage":    odPoints,
		"balance_management": balPoints,
	}, nil)
}

func (e *Engine) scoreRiskIndicators(risk model.RiskMetrics, debt model.DebtMetrics) model.ComponentScore {
	w := e.cfg.RiskIndicators

	gamblingPoints := scoreMaxBands(risk.GamblingPercentage, e.cfg.GamblingBands)

	hcstcWeight := w.Parts["hcstc_history"]
	var hcstcPoints float64
	var penalties []string
	switch {
	case debt.ActiveHCSTCLenders == 0:
		hcstcPoints = hcstcWeight
	case debt.ActiveHCSTCLenders == 1:
		hcstcPoints = hcstcWeight * 0.4
	default:
		penalties = append(penalties,
			fmt.Sprintf("Multiple HCSTC lenders (%d)", debt.ActiveHCSTCLenders))
	}

	score := componentScore(w, map[string]float64{
		"gambling_activity": gamblingPoints,
		"hcstc_history":     hcstcPoints,
	}, penalties)

	// Flat penalties stack on top of the banded score; the component clamp
	// still bounds the result.
	if risk.GamblingPercentage > e.cfg.GamblingPenaltyOver {
		score.Score += e.cfg.GamblingPenalty
		score.Penalties = append(score.Penalties,
			fmt.Sprintf("Gambling penalty: %.1f", e.cfg.GamblingPenalty))
	}
	if debt.ActiveHCSTCLenders >= e.cfg.HCSTCPenaltyFrom {
		score.Score += e.cfg.HCSTCPenalty
		score.Penalties = append(score.Penalties,
			fmt.Sprintf("Multiple HCSTC penalty: %.1f", e.cfg.HCSTCPenalty))
	}
	score.Score = clamp(score.Score, w.Min, w.Total)
	return score
}

// buildOffer constructs the bounded loan offer for an approved application.
func (e *Engine) buildOffer(score float64, afford model.AffordabilityMetrics, req model.LoanRequest) model.LoanOffer {
	var tierAmount float64
	var tierTerm int
	for _, tier := range e.cfg.ScoreLimits {
		if score >= tier.MinScore {
			tierAmount = tier.MaxAmount
			tierTerm = tier.MaxTerm
			break
		}
	}

	principal := math.Min(
		math.Min(req.Amount, e.product.MaxLoanAmount),
		math.Min(tierAmount, afford.MaxAffordable))
	if principal < e.product.MinLoanAmount {
		// A sub-minimum loan is no loan.
		return model.LoanOffer{}
	}

	term := req.Term
	if term > tierTerm {
		term = tierTerm
	}
	if minTerm := e.minAvailableTerm(); term < minTerm {
		term = minTerm
	}

	monthly := e.product.MonthlyPayment(principal, term)
	total := monthly * float64(term)
	interest := total - principal
	apr := interest / principal * (12 / float64(term)) * 100

	return model.LoanOffer{
		Principal:        math.Round(principal*100) / 100,
		TermMonths:       term,
		MonthlyRepayment: math.Round(monthly*100) / 100,
		TotalRepayable:   math.Round(total*100) / 100,
		APR:              math.Round(apr*10) / 10,
	}
}

func (e *Engine) minAvailableTerm() int {
	min := e.product.AvailableTerms[0]
	for _, t := range e.product.AvailableTerms[1:] {
		if t < min {
			min = t
		}
	}
	return min
}

// componentScore sums the sub-scores and clamps to the component's
// configured range. Sub-scores are summed in sorted-key order: float
// addition is not associative, and map iteration order would make the same
// bundle score differently across runs.
func componentScore(w config.ComponentWeights, breakdown map[string]float64, penalties []string) model.ComponentScore {
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum float64
	for _, k := range keys {
		sum += breakdown[k]
	}
	return model.ComponentScore{
		Breakdown: breakdown,
		Penalties: penalties,
		Score:     clamp(sum, w.Min, w.Total),
		Max:       w.Total,
	}
}

// scoreMaxBands scans a lower-is-better table and returns the first band
// whose ceiling the value does not exceed.
func scoreMaxBands(value float64, bands []config.MaxBand) float64 {
	for _, b := range bands {
		if value <= b.Max {
			return b.Points
		}
	}
	return bands[len(bands)-1].Points
}

// scoreMinBands scans a higher-is-better table and returns the first band
// whose floor the value meets.
func scoreMinBands(value float64, bands []config.MinBand) float64 {
	for _, b := range bands {
		if value >= b.Min {
			return b.Points
		}
	}
	return bands[len(bands)-1].Points
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
