// Package patterns holds the static, versioned category pattern library used
// by the transaction classifier. The library is constructed once at startup
// and treated as immutable for the duration of a scoring run.
package patterns

import (
	"fmt"
	"regexp"

	"github.com/ledgerline/underwrite/internal/model"
)

// Default confidences per match tier. Explicit patterns are trusted over
// loose text matches, so keyword beats regex beats fuzzy.
const (
	DefaultKeywordConfidence = 0.95
	DefaultRegexConfidence   = 0.90
)

// Entry is one subcategory's matching rules and classification metadata.
type Entry struct {
	Subcategory       string
	Label             string
	Keywords          []string
	RegexPatterns     []string
	Regexes           []*regexp.Regexp // compiled by NewLibrary
	RiskLevel         model.RiskLevel
	KeywordConfidence float64
	RegexConfidence   float64
	Weight            float64 // income weight; 1.0 for expenses
	MinConfidence     float64 // acceptance floor for matches on this entry
	IsStable          bool
	IsHousing         bool
}

// Table is an ordered list of entries for one category. Order matters: the
// classifier accepts the first entry whose match clears its floor.
type Table struct {
	Category model.Category
	Entries  []Entry
}

// Library is the full immutable pattern set.
type Library struct {
	Income    Table
	Debt      Table
	Essential Table
	Risk      Table
	Positive  Table

	// Transfer vocabulary: descriptions matching these are internal account
	// movements, never income.
	TransferKeywords []string
	TransferRegexes  []*regexp.Regexp

	// ExpenseServices is the whitelist of payment processors, BNPL services
	// and lenders whose credits must not be read as income.
	ExpenseServices []string
}

// NewLibrary compiles the default pattern tables. A pattern that fails to
// compile is a fatal configuration defect.
func NewLibrary() (*Library, error) {
	lib := defaultLibrary()

	for _, table := range []*Table{&lib.Income, &lib.Debt, &lib.Essential, &lib.Risk, &lib.Positive} {
		for i := range table.Entries {
			entry := &table.Entries[i]
			if entry.KeywordConfidence == 0 {
				entry.KeywordConfidence = DefaultKeywordConfidence
			}
			if entry.RegexConfidence == 0 {
				entry.RegexConfidence = DefaultRegexConfidence
			}
			entry.Regexes = make([]*regexp.Regexp, 0, len(entry.RegexPatterns))
			for _, p := range entry.RegexPatterns {
				re, err := regexp.Compile(p)
				if err != nil {
					return nil, fmt.Errorf("failed to compile pattern %s/%s: %w",
						table.Category, entry.Subcategory, err)
				}
				entry.Regexes = append(entry.Regexes, re)
			}
		}
	}

	lib.TransferRegexes = make([]*regexp.Regexp, 0, len(transferRegexPatterns))
	for _, p := range transferRegexPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile transfer pattern: %w", err)
		}
		lib.TransferRegexes = append(lib.TransferRegexes, re)
	}

	return lib, nil
}

// IsTransfer reports whether normalized text matches the internal-transfer
// vocabulary.
func (l *Library) IsTransfer(text string) bool {
	for _, kw := range l.TransferKeywords {
		if containsKeyword(text, kw) {
			return true
		}
	}
	for _, re := range l.TransferRegexes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchExpenseService returns the whitelisted expense service named in the
// text, if any.
func (l *Library) MatchExpenseService(text string) (string, bool) {
	for _, svc := range l.ExpenseServices {
		if containsKeyword(text, svc) {
			return svc, true
		}
	}
	return "", false
}

// FindEntry looks up a table entry by subcategory name.
func (t Table) FindEntry(subcategory string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Subcategory == subcategory {
			return e, true
		}
	}
	return Entry{}, false
}
