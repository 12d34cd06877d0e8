// Package normalize prepares raw transaction text for pattern matching.
package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// canonicalLenders maps known high-cost lender name variants to one
// canonical identifier, so downstream matching never has to enumerate
// spelling variants.
var canonicalLenders = map[string]string{
	"LENDING STREAM":              "LENDING_STREAM",
	"LENDINGSTREAM":               "LENDING_STREAM",
	"DRAFTY":                      "DRAFTY",
	"MR LENDER":                   "MR_LENDER",
	"MRLENDER":                    "MR_LENDER",
	"MONEYBOAT":                   "MONEYBOAT",
	"CREDITSPRING":                "CREDITSPRING",
	"CASHFLOAT":                   "CASHFLOAT",
	"QUIDMARKET":                  "QUIDMARKET",
	"QUID MARKET":                 "QUIDMARKET",
	"LOANS 2 GO":                  "LOANS_2_GO",
	"LOANS2GO":                    "LOANS_2_GO",
	"CASHASAP":                    "CASHASAP",
	"POLAR CREDIT":                "POLAR_CREDIT",
	"118 118 MONEY":               "118_118_MONEY",
	"118118 MONEY":                "118_118_MONEY",
	"118118MONEY":                 "118_118_MONEY",
	"THE MONEY PLATFORM":          "THE_MONEY_PLATFORM",
	"MONEY PLATFORM":              "THE_MONEY_PLATFORM",
	"FAST LOAN UK":                "FAST_LOAN_UK",
	"FASTLOAN":                    "FAST_LOAN_UK",
	"CONDUIT":                     "CONDUIT",
	"SALAD MONEY":                 "SALAD_MONEY",
	"FAIR FINANCE":                "FAIR_FINANCE",
	"SAVVY LOAN PRODUCTS LIMITED": "SAVVY_LOAN_PRODUCTS_LIMITED",
	"LIKELY LOANS":                "LIKELY_LOANS",
}

// lenderVariants holds the variant keys sorted longest-first, so the most
// specific variant wins (LENDING STREAM must not lose to a shorter match).
var lenderVariants = func() []string {
	variants := make([]string, 0, len(canonicalLenders))
	for v := range canonicalLenders {
		variants = append(variants, v)
	}
	sort.Slice(variants, func(i, j int) bool {
		if len(variants[i]) != len(variants[j]) {
			return len(variants[i]) > len(variants[j])
		}
		return variants[i] < variants[j]
	})
	return variants
}()

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize uppercases and trims raw description text and collapses internal
// whitespace. Pure and total: any input yields a usable string.
func Normalize(raw string) string {
	text := strings.ToUpper(strings.TrimSpace(raw))
	return whitespaceRe.ReplaceAllString(text, " ")
}

// CanonicalLender resolves a known high-cost lender name variant found in
// the text to its canonical identifier. The second return is false when no
// known lender appears.
func CanonicalLender(text string) (string, bool) {
	upper := strings.ToUpper(text)
	for _, variant := range lenderVariants {
		if strings.Contains(upper, variant) {
			return canonicalLenders[variant], true
		}
	}
	return "", false
}

var (
	paymentPrefixRe = regexp.MustCompile(`^(FP-|FASTER PAYMENTS?|BGC|BACS)\s*`)
	slashDateRe     = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	isoDateRe       = regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	refNumberRe     = regexp.MustCompile(`\bREF\s*\d+\b`)
	longNumberRe    = regexp.MustCompile(`\b\d{8,}\b`)
	longIDRe        = regexp.MustCompile(`\b[A-Z0-9]{12,}\b`)
	limitedRe       = regexp.MustCompile(`\bLIMITED\b`)
	corporationRe   = regexp.MustCompile(`\bCORPORATION\b`)
	paySuffixRe     = regexp.MustCompile(`\s+(SALARY|WAGES?|PAYMENT|PAYROLL|PAY)$`)
	employerRe      = regexp.MustCompile(`\b(LTD|LIMITED|PLC|LLP|INC|CORP|CORPORATION)\b`)
)

// GroupingKey reduces a description to a stable key for recurrence
// clustering: payment-rail prefixes, dates, reference numbers, long numeric
// runs and transaction IDs are stripped while the payer name is preserved.
// "ACME LTD SALARY REF 123456" and "ACME LIMITED SALARY" group together.
func GroupingKey(description string) string {
	desc := Normalize(description)
	if desc == "" {
		return ""
	}

	desc = paymentPrefixRe.ReplaceAllString(desc, "")
	desc = slashDateRe.ReplaceAllString(desc, "")
	desc = isoDateRe.ReplaceAllString(desc, "")
	desc = refNumberRe.ReplaceAllString(desc, "")
	desc = longNumberRe.ReplaceAllString(desc, "")
	desc = longIDRe.ReplaceAllString(desc, "")
	desc = limitedRe.ReplaceAllString(desc, "LTD")
	desc = corporationRe.ReplaceAllString(desc, "CORP")
	desc = strings.Join(strings.Fields(desc), " ")
	desc = paySuffixRe.ReplaceAllString(desc, "")

	return strings.TrimSpace(desc)
}

// genericWords are tokens that carry no payer identity on their own.
var genericWords = map[string]bool{
	"PAYMENT":  true,
	"TRANSFER": true,
	"CREDIT":   true,
	"DEBIT":    true,
	"TFR":      true,
	"FROM":     true,
	"TO":       true,
}

// LooksLikeEmployer reports whether normalized text reads like an employer
// name: a legal-entity suffix plus at least two non-generic words.
func LooksLikeEmployer(text string) bool {
	if !employerRe.MatchString(text) {
		return false
	}

	specific := 0
	for _, w := range strings.Fields(text) {
		if len(w) > 3 && !genericWords[w] {
			specific++
		}
	}
	return specific >= 2
}

// HasNamedPayer reports whether the text identifies a payer beyond generic
// payment vocabulary - at least two specific words of four or more letters.
func HasNamedPayer(text string) bool {
	specific := 0
	for _, w := range strings.Fields(text) {
		if len(w) > 3 && !genericWords[w] {
			specific++
		}
	}
	return specific >= 2
}

// HasEmployerSuffix reports whether the text contains a legal-entity suffix.
func HasEmployerSuffix(text string) bool {
	return employerRe.MatchString(text)
}
