package config

import (
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/underwrite/internal/common"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, 2, cfg.Detector.MinOccurrences)
	assert.Len(t, cfg.Detector.IntervalBands, 4)
	assert.Equal(t, 0.70, cfg.Classify.BehavioralThreshold)
	assert.Equal(t, 70.0, cfg.Scoring.ApproveMin)
	assert.Equal(t, 45.0, cfg.Scoring.ReferMin)
	assert.Equal(t, 100.0, cfg.Scoring.ScoreCeil)
	assert.Equal(t, 1500.0, cfg.Product.MaxLoanAmount)
	assert.Equal(t, []int{3, 4, 5, 6}, cfg.Product.AvailableTerms)

	// Component weights must sum to the full scale.
	total := cfg.Scoring.Affordability.Total +
		cfg.Scoring.IncomeQuality.Total +
		cfg.Scoring.AccountConduct.Total +
		cfg.Scoring.RiskIndicators.Total
	assert.Equal(t, 100.0, total)
}

func TestLoad_AllRequiredRulesPresent(t *testing.T) {
	cfg := loadDefaults(t)

	for _, name := range requiredRules {
		rule, err := cfg.Scoring.Rule(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, rule.Description, name)
	}

	lenders, err := cfg.Scoring.Rule("max_active_hcstc_lenders")
	require.NoError(t, err)
	assert.Equal(t, ActionDecline, lenders.Action)
	assert.Equal(t, 6.0, lenders.Threshold)
	assert.Equal(t, 90, lenders.LookbackDays)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{
			name:    "min occurrences too low",
			mutate:  func(c *Config) { c.Detector.MinOccurrences = 1 },
			wantKey: "detector.min_occurrences",
		},
		{
			name:    "tight tolerance above loose",
			mutate:  func(c *Config) { c.Detector.TightTolerance = 0.5 },
			wantKey: "detector.tight_tolerance",
		},
		{
			name:    "no interval bands",
			mutate:  func(c *Config) { c.Detector.IntervalBands = nil },
			wantKey: "detector.interval_bands",
		},
		{
			name:    "behavioral threshold out of range",
			mutate:  func(c *Config) { c.Classify.BehavioralThreshold = 1.5 },
			wantKey: "classify.behavioral_threshold",
		},
		{
			name:    "approve below refer",
			mutate:  func(c *Config) { c.Scoring.ApproveMin = 40 },
			wantKey: "scoring.approve_min",
		},
		{
			name:    "positive component floor",
			mutate:  func(c *Config) { c.Scoring.RiskIndicators.Min = 5 },
			wantKey: "scoring.risk_indicators.min",
		},
		{
			name: "dti band ceilings not ascending",
			mutate: func(c *Config) {
				c.Scoring.DTIBands = []MaxBand{{Max: 50, Points: 10}, {Max: 30, Points: 5}}
			},
			wantKey: "scoring.dti_bands",
		},
		{
			name: "disposable band points increase",
			mutate: func(c *Config) {
				c.Scoring.DisposableBands = []MinBand{{Min: 200, Points: 5}, {Min: 100, Points: 10}}
			},
			wantKey: "scoring.disposable_bands",
		},
		{
			name: "missing required rule",
			mutate: func(c *Config) {
				rules := make([]Rule, 0, len(c.Scoring.Rules))
				for _, r := range c.Scoring.Rules {
					if r.Name != "max_active_hcstc_lenders" {
						rules = append(rules, r)
					}
				}
				c.Scoring.Rules = rules
			},
			wantKey: "scoring.rules.max_active_hcstc_lenders",
		},
		{
			name: "unknown rule action",
			mutate: func(c *Config) {
				c.Scoring.Rules[0].Action = "ESCALATE"
			},
			wantKey: "scoring.rules." + "min_monthly_income",
		},
		{
			name: "score limit tiers not descending",
			mutate: func(c *Config) {
				c.Scoring.ScoreLimits = []ScoreLimit{
					{MinScore: 45, MaxAmount: 500, MaxTerm: 4},
					{MinScore: 75, MaxAmount: 1500, MaxTerm: 6},
				}
			},
			wantKey: "scoring.score_limits",
		},
		{
			name:    "max below min loan amount",
			mutate:  func(c *Config) { c.Product.MaxLoanAmount = 100 },
			wantKey: "product.max_loan_amount",
		},
		{
			name:    "shock buffer below one",
			mutate:  func(c *Config) { c.Product.ExpenseShockBuffer = 0.9 },
			wantKey: "product.expense_shock_buffer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadDefaults(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)

			var cfgErr *common.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestProductConfig_MonthlyPayment(t *testing.T) {
	cfg := loadDefaults(t)
	product := cfg.Product

	tests := []struct {
		name   string
		amount float64
		term   int
	}{
		{name: "minimum loan shortest term", amount: 200, term: 3},
		{name: "maximum loan longest term", amount: 1500, term: 6},
		{name: "mid range", amount: 800, term: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly := product.MonthlyPayment(tt.amount, tt.term)
			require.Greater(t, monthly, 0.0)

			total := monthly * float64(tt.term)
			assert.Greater(t, total, tt.amount, "repayment must include interest")
			// FCA total cost cap: never repay more than double the principal.
			assert.LessOrEqual(t, total, tt.amount*2+0.01)
		})
	}
}

func TestProductConfig_MonthlyPayment_ZeroTerm(t *testing.T) {
	cfg := loadDefaults(t)
	assert.Equal(t, 0.0, cfg.Product.MonthlyPayment(500, 0))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("UNDERWRITE_TEST_DIR", "/tmp/underwrite")

	assert.Equal(t, "/tmp/underwrite/audit.db", ExpandPath("$UNDERWRITE_TEST_DIR/audit.db"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/var/db/audit.db", ExpandPath("/var/db/audit.db"))
}
