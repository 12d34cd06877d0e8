// Package config loads and validates the engine configuration. Every
// threshold, weight, score band and rule is data here, never a literal in
// the code that evaluates it. The loaded Config is immutable for the
// lifetime of a scoring run.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ledgerline/underwrite/internal/common"
)

// Config is the full engine configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Detector DetectorConfig `mapstructure:"detector"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Product  ProductConfig  `mapstructure:"product"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig locates the optional sqlite audit store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// IntervalBand is one frequency band for recurrence detection, in days
// between consecutive occurrences.
type IntervalBand struct {
	Name    string `mapstructure:"name"`
	MinDays int    `mapstructure:"min_days"`
	MaxDays int    `mapstructure:"max_days"`
}

// DetectorConfig tunes the behavioral income detector.
type DetectorConfig struct {
	MinOccurrences      int            `mapstructure:"min_occurrences"`
	AmountTolerance     float64        `mapstructure:"amount_tolerance"`
	TightTolerance      float64        `mapstructure:"tight_tolerance"`
	DayOfMonthTolerance int            `mapstructure:"day_of_month_tolerance"`
	MinRecurringAmount  float64        `mapstructure:"min_recurring_amount"`
	EmployerMinAmount   float64        `mapstructure:"employer_min_amount"`
	LargeCreditAmount   float64        `mapstructure:"large_credit_amount"`
	IntervalBands       []IntervalBand `mapstructure:"interval_bands"`
}

// ClassifyConfig tunes the classifier's acceptance thresholds.
type ClassifyConfig struct {
	BehavioralThreshold float64 `mapstructure:"behavioral_threshold"`
	DefaultConfidence   float64 `mapstructure:"default_confidence"`
}

// MetricsConfig sets the lookback windows for windowed counts.
type MetricsConfig struct {
	HCSTCLookbackDays         int `mapstructure:"hcstc_lookback_days"`
	FailedPaymentLookbackDays int `mapstructure:"failed_payment_lookback_days"`
	BankChargeLookbackDays    int `mapstructure:"bank_charge_lookback_days"`
}

// RuleAction is what firing a rule does to the decision.
type RuleAction string

// Rule actions.
const (
	ActionDecline RuleAction = "DECLINE"
	ActionRefer   RuleAction = "REFER"
)

// Rule is one named decision rule evaluated before scoring.
type Rule struct {
	Name         string     `mapstructure:"name"`
	Threshold    float64    `mapstructure:"threshold"`
	Action       RuleAction `mapstructure:"action"`
	LookbackDays int        `mapstructure:"lookback_days"`
	Description  string     `mapstructure:"description"`
}

// MaxBand awards points when the metric value is at or below Max. Tables are
// ordered ascending by Max and scanned first-hit.
type MaxBand struct {
	Max    float64 `mapstructure:"max"`
	Points float64 `mapstructure:"points"`
}

// MinBand awards points when the metric value is at or above Min. Tables are
// ordered descending by Min and scanned first-hit.
type MinBand struct {
	Min    float64 `mapstructure:"min"`
	Points float64 `mapstructure:"points"`
}

// ComponentWeights caps one score component and its sub-scores.
type ComponentWeights struct {
	Total float64            `mapstructure:"total"`
	Min   float64            `mapstructure:"min"`
	Parts map[string]float64 `mapstructure:"parts"`
}

// ScoreLimit caps the offer by score tier.
type ScoreLimit struct {
	MinScore  float64 `mapstructure:"min_score"`
	MaxAmount float64 `mapstructure:"max_amount"`
	MaxTerm   int     `mapstructure:"max_term"`
}

// ScoringConfig is the decision policy: bands, weights, threshold tables,
// rules and score-tier offer limits.
type ScoringConfig struct {
	ApproveMin float64 `mapstructure:"approve_min"`
	ReferMin   float64 `mapstructure:"refer_min"`
	ScoreFloor float64 `mapstructure:"score_floor"`
	ScoreCeil  float64 `mapstructure:"score_ceiling"`

	Affordability  ComponentWeights `mapstructure:"affordability"`
	IncomeQuality  ComponentWeights `mapstructure:"income_quality"`
	AccountConduct ComponentWeights `mapstructure:"account_conduct"`
	RiskIndicators ComponentWeights `mapstructure:"risk_indicators"`

	DTIBands        []MaxBand `mapstructure:"dti_bands"`
	DisposableBands []MinBand `mapstructure:"disposable_bands"`
	StabilityBands  []MinBand `mapstructure:"stability_bands"`
	GamblingBands   []MaxBand `mapstructure:"gambling_bands"`

	// Flat penalties stacked on the risk component after its bands.
	GamblingPenaltyOver float64 `mapstructure:"gambling_penalty_over"`
	GamblingPenalty     float64 `mapstructure:"gambling_penalty"`
	HCSTCPenaltyFrom    int     `mapstructure:"hcstc_penalty_from"`
	HCSTCPenalty        float64 `mapstructure:"hcstc_penalty"`

	Rules       []Rule       `mapstructure:"rules"`
	ScoreLimits []ScoreLimit `mapstructure:"score_limits"`
}

// ProductConfig is the loan product's regulatory and commercial envelope.
type ProductConfig struct {
	MinLoanAmount       float64 `mapstructure:"min_loan_amount"`
	MaxLoanAmount       float64 `mapstructure:"max_loan_amount"`
	AvailableTerms      []int   `mapstructure:"available_terms"`
	DailyInterestRate   float64 `mapstructure:"daily_interest_rate"`
	TotalCostCap        float64 `mapstructure:"total_cost_cap"`
	DaysPerMonth        float64 `mapstructure:"days_per_month"`
	ExpenseShockBuffer  float64 `mapstructure:"expense_shock_buffer"`
	MinDisposableBuffer float64 `mapstructure:"min_disposable_buffer"`
}

// MonthlyPayment returns the monthly repayment for a principal over a term,
// using simple daily interest with total interest capped at the configured
// percentage of principal.
func (p ProductConfig) MonthlyPayment(amount float64, term int) float64 {
	if amount <= 0 || term <= 0 {
		return 0
	}
	monthlyRate := p.DailyInterestRate * p.DaysPerMonth
	totalInterest := amount * monthlyRate * float64(term)
	if capped := amount * p.TotalCostCap; totalInterest > capped {
		totalInterest = capped
	}
	return (amount + totalInterest) / float64(term)
}

// Load materializes the configuration from viper (config file plus
// UNDERWRITE_* environment overrides, both already bound by the CLI) over
// the built-in defaults, then validates it. Validation failures are fatal:
// the engine must refuse to score on an incomplete policy.
func Load() (*Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Rule returns the named rule, or an error naming the missing key. Rule
// evaluation must never invent a threshold for an absent rule.
func (s *ScoringConfig) Rule(name string) (Rule, error) {
	for _, r := range s.Rules {
		if r.Name == name {
			return r, nil
		}
	}
	return Rule{}, common.NewConfigError("scoring.rules."+name, "rule not configured")
}
