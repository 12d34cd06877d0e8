// Package classify turns raw transactions into classification results via a
// fixed, ordered chain of matchers: strict taxonomy rules, the known
// expense-service whitelist, behavioral income detection, pattern tables,
// then a terminal fallback. Ordering is a design invariant: income must be
// resolved before default transfer categorization because upstream
// taxonomies mislabel local payroll rails as transfers.
package classify

import (
	"log/slog"
	"strings"

	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/income"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/normalize"
	"github.com/ledgerline/underwrite/internal/patterns"
)

// Pipeline step names, reported on every result for audit.
const (
	StepTaxonomyStrict = "taxonomy-strict"
	StepWhitelist      = "whitelist"
	StepBehavioral     = "behavioral"
	StepPatterns       = "patterns"
	StepFallback       = "fallback"
)

// txnContext carries one transaction through the matcher chain.
type txnContext struct {
	txn      model.Transaction
	idx      int
	text     string // normalized description + merchant
	analysis *income.Analysis
}

type matcher struct {
	step string
	fn   func(*Classifier, *txnContext) (model.ClassificationResult, bool)
}

// Classifier classifies transactions for one or more applicants. It holds
// only immutable state and is safe for concurrent use; the per-applicant
// recurrence analysis is created fresh inside each Classify call.
type Classifier struct {
	lib      *patterns.Library
	detector *income.Detector
	cfg      config.ClassifyConfig
	logger   *slog.Logger
	chain    []matcher
}

// New builds a classifier over an immutable pattern library.
func New(lib *patterns.Library, detector *income.Detector, cfg config.ClassifyConfig, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Classifier{lib: lib, detector: detector, cfg: cfg, logger: logger}
	c.chain = []matcher{
		{StepTaxonomyStrict, (*Classifier).matchStrictTaxonomy},
		{StepWhitelist, (*Classifier).matchServiceWhitelist},
		{StepBehavioral, (*Classifier).matchBehavioral},
		{StepPatterns, (*Classifier).matchPatternTables},
		{StepFallback, (*Classifier).matchFallback},
	}
	return c
}

// Classify classifies every transaction in one applicant's window. The
// returned slice is index-aligned with the input; no transaction is dropped.
func (c *Classifier) Classify(txns []model.Transaction) []model.ClassifiedTransaction {
	analysis := c.detector.AnalyzeBatch(txns)

	out := make([]model.ClassifiedTransaction, len(txns))
	for i, txn := range txns {
		ctx := &txnContext{
			txn:      txn,
			idx:      i,
			text:     normalize.Normalize(txn.Description + " " + txn.MerchantName),
			analysis: analysis,
		}
		out[i] = model.ClassifiedTransaction{
			Transaction: txn,
			Result:      c.classifyOne(ctx),
		}
	}
	return out
}

func (c *Classifier) classifyOne(ctx *txnContext) model.ClassificationResult {
	for _, m := range c.chain {
		if result, ok := m.fn(c, ctx); ok {
			result.Step = m.step
			c.logger.Debug("transaction classified",
				"step", m.step,
				"category", result.Category,
				"subcategory", result.Subcategory,
				"confidence", result.Confidence)
			return result
		}
	}
	// Unreachable: the fallback matcher is terminal by contract.
	return model.ClassificationResult{
		Category:    model.CategoryExpense,
		Subcategory: "other",
		Label:       "Other Expense",
		Method:      model.MethodDefault,
		Confidence:  c.cfg.DefaultConfidence,
		Weight:      1.0,
		RiskLevel:   model.RiskNone,
	}
}

// matchStrictTaxonomy applies upstream-taxonomy rules that must win
// regardless of description text.
func (c *Classifier) matchStrictTaxonomy(ctx *txnContext) (model.ClassificationResult, bool) {
	detailed := strings.ToUpper(strings.TrimSpace(ctx.txn.TaxonomyDetailed))
	primary := strings.ToUpper(strings.TrimSpace(ctx.txn.TaxonomyPrimary))
	credit := ctx.txn.IsCredit()

	// A TRANSFER_OUT tag on a credit is a taxonomy error; ignore it and let
	// the remaining steps classify from text.
	if credit && strings.Contains(detailed, "TRANSFER_OUT") {
		return model.ClassificationResult{}, false
	}

	// Loan and cash-advance disbursements are visible in the income category
	// but carry weight 0: they are never counted as income, whatever the
	// description says.
	if detailed == "TRANSFER_IN_CASH_ADVANCES_AND_LOANS" {
		return loanDisbursement(0.98, model.MethodTaxonomyStrict), true
	}
	if credit && (strings.Contains(primary, "LOAN_PAYMENTS") ||
		strings.Contains(detailed, "LOAN_PAYMENTS") ||
		strings.Contains(detailed, "CASH_ADVANCES")) {
		return loanDisbursement(0.95, model.MethodTaxonomyStrict), true
	}

	if strings.HasPrefix(detailed, "TRANSFER_IN") {
		if strings.Contains(detailed, "ACCOUNT_TRANSFER") {
			return model.ClassificationResult{
				Category:    model.CategoryTransfer,
				Subcategory: "account_transfer",
				Label:       "Account Transfer In",
				Method:      model.MethodTaxonomyStrict,
				Confidence:  0.98,
				Weight:      0,
			}, true
		}
		// Generic TRANSFER_IN is a holding state: genuine salary often
		// arrives tagged this way. Fall through so the behavioral detector
		// gets a chance to promote it.
		return model.ClassificationResult{}, false
	}

	if !credit && strings.HasPrefix(detailed, "TRANSFER_OUT") {
		if strings.Contains(detailed, "ACCOUNT_TRANSFER") {
			return model.ClassificationResult{
				Category:    model.CategoryTransfer,
				Subcategory: "account_transfer",
				Label:       "Account Transfer Out",
				Method:      model.MethodTaxonomyStrict,
				Confidence:  0.98,
				Weight:      0,
			}, true
		}
		return model.ClassificationResult{
			Category:    model.CategoryExpense,
			Subcategory: "other",
			Label:       "Transfer Out",
			Method:      model.MethodTaxonomyStrict,
			Confidence:  0.98,
			Weight:      1.0,
		}, true
	}

	if strings.Contains(detailed, "BANK_FEES_INSUFFICIENT_FUNDS") {
		return model.ClassificationResult{
			Category:    model.CategoryRisk,
			Subcategory: "bank_charges",
			Label:       "Unpaid/Returned/NSF Fees",
			Method:      model.MethodTaxonomyStrict,
			Confidence:  0.98,
			Weight:      1.0,
			RiskLevel:   model.RiskHigh,
		}, true
	}
	if strings.Contains(detailed, "BANK_FEES_OVERDRAFT") {
		return model.ClassificationResult{
			Category:    model.CategoryRisk,
			Subcategory: "bank_charges",
			Label:       "Overdraft Fees",
			Method:      model.MethodTaxonomyStrict,
			Confidence:  0.98,
			Weight:      1.0,
			RiskLevel:   model.RiskHigh,
		}, true
	}
	if strings.Contains(detailed, "ENTERTAINMENT_CASINOS_AND_GAMBLING") {
		return model.ClassificationResult{
			Category:    model.CategoryRisk,
			Subcategory: "gambling",
			Label:       "Gambling",
			Method:      model.MethodTaxonomyStrict,
			Confidence:  0.98,
			Weight:      1.0,
			RiskLevel:   model.RiskCritical,
		}, true
	}

	// Credit unions need the direction rule: incoming money is loan
	// proceeds, outgoing money is a repayment.
	if strings.Contains(ctx.text, "CREDIT UNION") {
		if credit {
			r := loanDisbursement(0.90, model.MethodKeyword)
			r.Label = "Credit Union Loan Proceeds"
			return r, true
		}
		return model.ClassificationResult{
			Category:    model.CategoryDebt,
			Subcategory: "other_loans",
			Label:       "Credit Union Loan Repayment",
			Method:      model.MethodKeyword,
			Confidence:  0.90,
			Weight:      1.0,
			RiskLevel:   model.RiskMedium,
		}, true
	}

	return model.ClassificationResult{}, false
}

// matchServiceWhitelist stops credits from known payment processors, BNPL
// services and lenders from ever reading as income, with a pass-through for
// gig-economy payouts.
func (c *Classifier) matchServiceWhitelist(ctx *txnContext) (model.ClassificationResult, bool) {
	if !ctx.txn.IsCredit() {
		return model.ClassificationResult{}, false
	}
	if _, ok := c.lib.MatchExpenseService(ctx.text); !ok {
		return model.ClassificationResult{}, false
	}
	// STRIPE PAYOUT and friends are gig earnings, not expense refunds.
	if strings.Contains(ctx.text, "PAYOUT") || strings.Contains(ctx.text, "DISBURSEMENT") {
		return model.ClassificationResult{}, false
	}

	primary := strings.ToUpper(ctx.txn.TaxonomyPrimary)
	if strings.Contains(primary, "LOAN_PAYMENTS") {
		return loanDisbursement(0.95, model.MethodKeyword), true
	}
	if strings.Contains(primary, "TRANSFER") {
		return model.ClassificationResult{
			Category:    model.CategoryTransfer,
			Subcategory: "internal",
			Label:       "Internal Transfer",
			Method:      model.MethodKeyword,
			Confidence:  0.90,
			Weight:      0,
		}, true
	}
	// A credit from an expense service with no stronger signal is a refund.
	return model.ClassificationResult{
		Category:    model.CategoryIncome,
		Subcategory: "other",
		Label:       "Other Income",
		Method:      model.MethodKeyword,
		Reason:      "known_expense_service",
		Confidence:  0.50,
		Weight:      1.0,
	}, true
}

// matchBehavioral promotes credits the income detector is confident about.
func (c *Classifier) matchBehavioral(ctx *txnContext) (model.ClassificationResult, bool) {
	if !ctx.txn.IsCredit() {
		return model.ClassificationResult{}, false
	}
	verdict := c.detector.Assess(ctx.txn, ctx.idx, ctx.analysis)
	if !verdict.IsIncome || verdict.Confidence < c.cfg.BehavioralThreshold {
		return model.ClassificationResult{}, false
	}

	sub := verdict.Subcategory
	if sub == "" || sub == string(model.SourceUnknown) {
		sub = "other"
	}
	result := model.ClassificationResult{
		Category:    model.CategoryIncome,
		Subcategory: sub,
		Label:       "Other Income",
		Method:      model.MethodBehavioral,
		Reason:      verdict.Reason,
		Confidence:  verdict.Confidence,
		Weight:      1.0,
	}
	if entry, ok := c.lib.Income.FindEntry(sub); ok {
		result.Label = entry.Label
		result.Weight = entry.Weight
		result.IsStable = entry.IsStable
	}
	return result, true
}

// matchPatternTables runs the keyword/regex/fuzzy tables in the fixed
// priority order for each direction.
func (c *Classifier) matchPatternTables(ctx *txnContext) (model.ClassificationResult, bool) {
	if ctx.txn.IsCredit() {
		return c.matchCreditTables(ctx)
	}
	return c.matchDebitTables(ctx)
}

// matchFallback terminates the chain: the classifier never leaves a
// transaction unclassified.
func (c *Classifier) matchFallback(ctx *txnContext) (model.ClassificationResult, bool) {
	if ctx.txn.IsCredit() {
		// Anything still tagged TRANSFER_IN after income resolution failed
		// really is a transfer.
		if strings.HasPrefix(strings.ToUpper(ctx.txn.TaxonomyDetailed), "TRANSFER_IN") {
			return model.ClassificationResult{
				Category:    model.CategoryTransfer,
				Subcategory: "in",
				Label:       "Transfer In",
				Method:      model.MethodTaxonomyFallback,
				Confidence:  0.90,
				Weight:      0,
			}, true
		}
		return model.ClassificationResult{
			Category:    model.CategoryIncome,
			Subcategory: "other",
			Label:       "Other Income",
			Method:      model.MethodDefault,
			Confidence:  0.50,
			Weight:      0.5,
		}, true
	}
	return model.ClassificationResult{
		Category:    model.CategoryExpense,
		Subcategory: "other",
		Label:       "Other Expense",
		Method:      model.MethodDefault,
		Confidence:  c.cfg.DefaultConfidence,
		Weight:      1.0,
	}, true
}

func loanDisbursement(confidence float64, method model.MatchMethod) model.ClassificationResult {
	return model.ClassificationResult{
		Category:    model.CategoryIncome,
		Subcategory: "loans",
		Label:       "Loan Payments/Disbursements",
		Method:      method,
		Confidence:  confidence,
		Weight:      0,
	}
}
