package classify

import (
	"regexp"
	"strings"

	"github.com/ledgerline/underwrite/internal/match"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/patterns"
)

// bankIndicators flip the essential-before-debt ordering: "SAINSBURYS BANK"
// is a credit card, plain "SAINSBURYS" is groceries.
var bankIndicators = []string{"BANK", "CREDIT CARD", "CARD", "BARCLAYCARD"}

var standingOrderRe = regexp.MustCompile(`\bSTANDING\s*ORDER\b`)

// taxonomyFallbacks maps coarse upstream primary categories to a
// classification when no pattern table matched a debit.
var taxonomyFallbacks = map[string]model.ClassificationResult{
	"RENT_AND_UTILITIES": {
		Category: model.CategoryEssential, Subcategory: "utilities",
		Label: "Utilities", Confidence: 0.70, Weight: 1.0,
	},
	"TRANSPORTATION": {
		Category: model.CategoryEssential, Subcategory: "transport",
		Label: "Transport", Confidence: 0.70, Weight: 1.0,
	},
	"FOOD_AND_DRINK": {
		Category: model.CategoryExpense, Subcategory: "food_and_drink",
		Label: "Food & Drink", Confidence: 0.70, Weight: 1.0,
	},
	"GENERAL_MERCHANDISE": {
		Category: model.CategoryExpense, Subcategory: "shopping",
		Label: "Shopping", Confidence: 0.70, Weight: 1.0,
	},
	"ENTERTAINMENT": {
		Category: model.CategoryExpense, Subcategory: "entertainment",
		Label: "Entertainment", Confidence: 0.70, Weight: 1.0,
	},
	"PERSONAL_CARE": {
		Category: model.CategoryExpense, Subcategory: "personal_care",
		Label: "Personal Care", Confidence: 0.70, Weight: 1.0,
	},
	"MEDICAL": {
		Category: model.CategoryEssential, Subcategory: "medical",
		Label: "Medical", Confidence: 0.70, Weight: 1.0,
	},
	"LOAN_PAYMENTS": {
		Category: model.CategoryDebt, Subcategory: "other_loans",
		Label: "Other Loans", Confidence: 0.70, Weight: 1.0,
		RiskLevel: model.RiskMedium,
	},
	"BANK_FEES": {
		Category: model.CategoryRisk, Subcategory: "bank_charges",
		Label: "Bank Charges", Confidence: 0.70, Weight: 1.0,
		RiskLevel: model.RiskHigh,
	},
}

func (c *Classifier) matchCreditTables(ctx *txnContext) (model.ClassificationResult, bool) {
	// Income subcategory tables first: payroll text must beat the transfer
	// vocabulary for credits.
	if entry, out, ok := match.EvaluateTable(ctx.text, &c.lib.Income); ok {
		return resultFromEntry(c.lib.Income.Category, entry, out), true
	}

	if c.lib.IsTransfer(ctx.text) {
		return model.ClassificationResult{
			Category:    model.CategoryTransfer,
			Subcategory: "internal",
			Label:       "Internal Transfer",
			Method:      model.MethodKeyword,
			Confidence:  0.90,
			Weight:      0,
		}, true
	}

	return model.ClassificationResult{}, false
}

func (c *Classifier) matchDebitTables(ctx *txnContext) (model.ClassificationResult, bool) {
	// Standing orders are how rent and bills get paid; only treat a debit as
	// a transfer when the transfer vocabulary matches on its own.
	if c.lib.IsTransfer(ctx.text) && !standingOrderRe.MatchString(ctx.text) {
		return model.ClassificationResult{
			Category:    model.CategoryTransfer,
			Subcategory: "internal",
			Label:       "Internal Transfer",
			Method:      model.MethodKeyword,
			Confidence:  0.90,
			Weight:      0,
		}, true
	}

	if entry, out, ok := match.EvaluateTable(ctx.text, &c.lib.Risk); ok {
		return resultFromEntry(c.lib.Risk.Category, entry, out), true
	}

	if containsAnyIndicator(ctx.text) {
		if entry, out, ok := match.EvaluateTable(ctx.text, &c.lib.Debt); ok {
			return resultFromEntry(c.lib.Debt.Category, entry, out), true
		}
	}

	if entry, out, ok := match.EvaluateTable(ctx.text, &c.lib.Essential); ok {
		return resultFromEntry(c.lib.Essential.Category, entry, out), true
	}

	if entry, out, ok := match.EvaluateTable(ctx.text, &c.lib.Debt); ok {
		return resultFromEntry(c.lib.Debt.Category, entry, out), true
	}

	// Coarse taxonomy fallback runs before the positive table so that a
	// "CHIP" coffee shop tagged FOOD_AND_DRINK never reads as savings.
	primary := strings.ToUpper(strings.TrimSpace(ctx.txn.TaxonomyPrimary))
	for prefix, result := range taxonomyFallbacks {
		if strings.HasPrefix(primary, prefix) {
			result.Method = model.MethodTaxonomyFallback
			return result, true
		}
	}

	if entry, out, ok := match.EvaluateTable(ctx.text, &c.lib.Positive); ok {
		return resultFromEntry(c.lib.Positive.Category, entry, out), true
	}

	return model.ClassificationResult{}, false
}

func containsAnyIndicator(text string) bool {
	for _, ind := range bankIndicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}

func resultFromEntry(category model.Category, entry *patterns.Entry, out match.Outcome) model.ClassificationResult {
	weight := entry.Weight
	if category != model.CategoryIncome {
		weight = 1.0
	}
	risk := entry.RiskLevel
	if risk == "" {
		risk = model.RiskNone
	}
	return model.ClassificationResult{
		Category:    category,
		Subcategory: entry.Subcategory,
		Label:       entry.Label,
		Method:      out.Method,
		Confidence:  out.Confidence,
		Weight:      weight,
		RiskLevel:   risk,
		IsStable:    entry.IsStable,
		IsHousing:   entry.IsHousing,
	}
}
