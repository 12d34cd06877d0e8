package model

// Decision is the terminal outcome for a loan application.
type Decision string

// Decision constants.
const (
	DecisionApprove Decision = "APPROVE"
	DecisionRefer   Decision = "REFER"
	DecisionDecline Decision = "DECLINE"
)

// ComponentScore is one scoring component with its sub-score breakdown.
type ComponentScore struct {
	Breakdown map[string]float64 `json:"breakdown"`
	Penalties []string           `json:"penalties,omitempty"`
	Score     float64            `json:"score"`
	Max       float64            `json:"max"`
}

// ScoreBreakdown details how the total score was assembled.
type ScoreBreakdown struct {
	Affordability  ComponentScore `json:"affordability"`
	IncomeQuality  ComponentScore `json:"income_quality"`
	AccountConduct ComponentScore `json:"account_conduct"`
	RiskIndicators ComponentScore `json:"risk_indicators"`
	Total          float64        `json:"total"`
}

// LoanOffer is the bounded offer attached to an approved application.
// A zero Principal means no offer could be constructed within product limits.
type LoanOffer struct {
	Principal        float64 `json:"principal"`
	TermMonths       int     `json:"term_months"`
	MonthlyRepayment float64 `json:"monthly_repayment"`
	TotalRepayable   float64 `json:"total_repayable"`
	APR              float64 `json:"apr"` // indicative only
}

// ScoringResult is the complete, immutable decision output for one applicant.
type ScoringResult struct {
	Reference      string         `json:"reference"`
	Decision       Decision       `json:"decision"`
	Score          float64        `json:"score"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
	DeclineReasons []string       `json:"decline_reasons,omitempty"`
	ReferReasons   []string       `json:"refer_reasons,omitempty"`
	Offer          *LoanOffer     `json:"offer,omitempty"` // only set when Decision is APPROVE
}
