// Package income implements behavioral income detection. It decides whether
// a credit transaction is probably income even when the third-party taxonomy
// or the description text suggests a transfer, by analyzing the whole
// transaction window for recurring-amount, recurring-interval clusters.
package income

import (
	"math"
	"sort"
	"strings"

	"github.com/ledgerline/underwrite/internal/config"
	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/normalize"
	"github.com/ledgerline/underwrite/internal/patterns"
)

// Keyword sets the detector checks directly. Kept separate from the pattern
// library tables so the detector's priority chain does not depend on table
// ordering.
var (
	payrollKeywords = []string{
		"SALARY", "WAGES", "PAYROLL", "NET PAY", "WAGE",
		"PAYSLIP", "EMPLOYER", "EMPLOYERS",
		"BGC", "BANK GIRO CREDIT", "CONTRACT PAY",
		"MONTHLY PAY", "WEEKLY PAY", "BACS CREDIT",
		"FASTER PAYMENT", "EMPLOYMENT", "PAYCHECK",
	}

	benefitKeywords = []string{
		"UNIVERSAL CREDIT", "DWP", "HMRC",
		"CHILD BENEFIT", "PIP", "DLA", "ESA", "JSA",
		"PENSION CREDIT", "HOUSING BENEFIT",
		"TAX CREDIT", "WORKING TAX", "CHILD TAX",
		"CARERS ALLOWANCE", "ATTENDANCE ALLOWANCE",
		"BEREAVEMENT", "MATERNITY ALLOWANCE",
	}

	pensionKeywords = []string{
		"PENSION", "ANNUITY", "STATE PENSION", "RETIREMENT",
		"NEST", "AVIVA", "LEGAL AND GENERAL", "SCOTTISH WIDOWS",
		"STANDARD LIFE", "PRUDENTIAL", "ROYAL LONDON", "AEGON",
	}

	loanKeywords = []string{
		"LOAN DISBURSEMENT", "LOAN ADVANCE",
		"PAYDAY LOAN", "SHORT TERM LOAN",
	}
)

// Detector finds recurring income streams and assesses individual credits.
type Detector struct {
	cfg config.DetectorConfig
	lib *patterns.Library
}

// NewDetector builds a detector from validated configuration.
func NewDetector(cfg config.DetectorConfig, lib *patterns.Library) *Detector {
	return &Detector{cfg: cfg, lib: lib}
}

// Verdict is the detector's opinion on one transaction.
type Verdict struct {
	IsIncome    bool
	Confidence  float64
	Reason      string
	Subcategory string
}

// Analysis is the per-applicant recurrence cache. It is created by
// AnalyzeBatch, owned by the caller, and must never be shared across
// applicants: the transaction indices it holds are positions in one
// applicant's window.
type Analysis struct {
	sources []model.RecurringIncomeSource
	byIndex map[int]int // transaction index -> position in sources
}

// Sources returns the detected recurring income sources, highest
// confidence first.
func (a *Analysis) Sources() []model.RecurringIncomeSource {
	if a == nil {
		return nil
	}
	return a.sources
}

// SourceFor returns the recurring source containing the given transaction
// index, if any.
func (a *Analysis) SourceFor(idx int) (model.RecurringIncomeSource, bool) {
	if a == nil {
		return model.RecurringIncomeSource{}, false
	}
	pos, ok := a.byIndex[idx]
	if !ok {
		return model.RecurringIncomeSource{}, false
	}
	return a.sources[pos], true
}

// AnalyzeBatch runs the recurrence search once over the whole window.
// Credits are grouped by a stable description key, then each group is
// checked for amount similarity and a regular payment interval.
func (d *Detector) AnalyzeBatch(txns []model.Transaction) *Analysis {
	groups := make(map[string][]int)
	for i, txn := range txns {
		if !txn.IsCredit() || txn.AbsAmount() < d.cfg.MinRecurringAmount {
			continue
		}
		key := normalize.GroupingKey(txn.Description)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], i)
	}

	analysis := &Analysis{byIndex: make(map[int]int)}
	for key, indices := range groups {
		if len(indices) < d.cfg.MinOccurrences {
			continue
		}
		if src, ok := d.analyzeGroup(key, indices, txns); ok {
			analysis.sources = append(analysis.sources, src)
		}
	}

	// Highest confidence first, so index conflicts resolve to the stronger
	// source. Ties break on pattern for deterministic output.
	sort.Slice(analysis.sources, func(i, j int) bool {
		a, b := analysis.sources[i], analysis.sources[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Pattern < b.Pattern
	})
	for pos, src := range analysis.sources {
		for _, idx := range src.Indices {
			if _, taken := analysis.byIndex[idx]; !taken {
				analysis.byIndex[idx] = pos
			}
		}
	}
	return analysis
}

func (d *Detector) analyzeGroup(key string, indices []int, txns []model.Transaction) (model.RecurringIncomeSource, bool) {
	var (
		amounts []float64
		dated   []int
	)
	for _, idx := range indices {
		if !txns[idx].HasDate() {
			continue
		}
		amounts = append(amounts, txns[idx].AbsAmount())
		dated = append(dated, idx)
	}
	if len(dated) < d.cfg.MinOccurrences {
		return model.RecurringIncomeSource{}, false
	}

	var sum float64
	for _, a := range amounts {
		sum += a
	}
	avg := sum / float64(len(amounts))
	if avg == 0 {
		return model.RecurringIncomeSource{}, false
	}
	var maxVariance float64
	for _, a := range amounts {
		if v := math.Abs(a-avg) / avg; v > maxVariance {
			maxVariance = v
		}
	}

	sort.Slice(dated, func(i, j int) bool {
		return txns[dated[i]].Date.Before(txns[dated[j]].Date)
	})
	var intervalSum float64
	for i := 1; i < len(dated); i++ {
		intervalSum += txns[dated[i]].Date.Sub(txns[dated[i-1]].Date).Hours() / 24
	}
	avgInterval := intervalSum / float64(len(dated)-1)

	band := d.bandFor(avgInterval)
	if band == model.BandNone {
		return model.RecurringIncomeSource{}, false
	}

	// Monthly streams paid on a consistent calendar day get the tight
	// variance test: genuine salaries barely move month to month.
	dayStable := false
	if band == model.BandMonthly && len(dated) >= 3 {
		var daySum float64
		for _, idx := range dated {
			daySum += float64(txns[idx].Date.Day())
		}
		avgDay := daySum / float64(len(dated))
		stable := true
		for _, idx := range dated {
			if math.Abs(float64(txns[idx].Date.Day())-avgDay) > float64(d.cfg.DayOfMonthTolerance) {
				stable = false
				break
			}
		}
		dayStable = stable
	}

	tolerance := d.cfg.AmountTolerance
	if band == model.BandMonthly && dayStable {
		tolerance = d.cfg.TightTolerance
	}
	if maxVariance > tolerance {
		return model.RecurringIncomeSource{}, false
	}

	var sqSum float64
	for _, a := range amounts {
		sqSum += (a - avg) * (a - avg)
	}
	stdDev := math.Sqrt(sqSum / float64(len(amounts)))

	sourceType, confidence := d.classifySource(key, avg, len(dated), band, dayStable)
	if confidence == 0 {
		return model.RecurringIncomeSource{}, false
	}

	return model.RecurringIncomeSource{
		Pattern:          key,
		Band:             band,
		SourceType:       sourceType,
		Indices:          dated,
		AvgAmount:        avg,
		AmountStdDev:     stdDev,
		IntervalDays:     avgInterval,
		Confidence:       confidence,
		Occurrences:      len(dated),
		DayOfMonthStable: dayStable,
	}, true
}

func (d *Detector) bandFor(avgInterval float64) model.FrequencyBand {
	for _, b := range d.cfg.IntervalBands {
		if avgInterval >= float64(b.MinDays) && avgInterval <= float64(b.MaxDays) {
			return model.FrequencyBand(b.Name)
		}
	}
	return model.BandNone
}

// classifySource labels a recurring cluster and scores it. Base confidence
// grows with occurrence count; explicit keywords and cadence fit add to it.
func (d *Detector) classifySource(pattern string, avg float64, count int, band model.FrequencyBand, dayStable bool) (model.IncomeSourceType, float64) {
	if d.lib.IsTransfer(pattern) || containsAny(pattern, loanKeywords) {
		return model.SourceUnknown, 0
	}
	if _, isLender := normalize.CanonicalLender(pattern); isLender {
		return model.SourceUnknown, 0
	}

	base := math.Min(0.7, 0.4+float64(count)*0.1)

	if containsAny(pattern, payrollKeywords) || hasFasterPaymentPrefix(pattern) {
		switch {
		case band == model.BandWeekly || band == model.BandFortnightly:
			return model.SourceSalary, math.Min(0.95, base+0.25)
		case band == model.BandMonthly && dayStable:
			return model.SourceSalary, math.Min(0.95, base+0.30)
		case band == model.BandMonthly:
			return model.SourceSalary, math.Min(0.95, base+0.20)
		default:
			return model.SourceSalary, math.Min(0.90, base+0.15)
		}
	}

	if containsAny(pattern, benefitKeywords) {
		if band == model.BandMonthly {
			return model.SourceBenefits, math.Min(0.95, base+0.25)
		}
		return model.SourceBenefits, math.Min(0.90, base+0.15)
	}

	if containsAny(pattern, pensionKeywords) {
		if band == model.BandMonthly || band == model.BandQuarterly {
			return model.SourcePension, math.Min(0.95, base+0.25)
		}
		return model.SourcePension, math.Min(0.90, base+0.15)
	}

	if normalize.HasEmployerSuffix(pattern) {
		switch {
		case band == model.BandMonthly && dayStable:
			return model.SourceSalary, math.Min(0.90, base+0.25)
		case band == model.BandMonthly, band == model.BandFortnightly:
			return model.SourceSalary, math.Min(0.85, base+0.15)
		default:
			return model.SourceSalary, math.Min(0.75, base+0.10)
		}
	}

	// No keywords at all: a tight monthly pattern on a consistent day at a
	// meaningful amount still looks like salary.
	if avg >= d.cfg.EmployerMinAmount {
		switch {
		case band == model.BandMonthly && dayStable:
			return model.SourceSalary, math.Min(0.95, base+0.30)
		case band == model.BandFortnightly:
			return model.SourceSalary, math.Min(0.90, base+0.20)
		case band == model.BandWeekly:
			return model.SourceSalary, math.Min(0.85, base+0.15)
		case band == model.BandMonthly, band == model.BandQuarterly:
			return model.SourceUnknown, math.Min(0.70, base+0.10)
		}
	}

	return model.SourceUnknown, math.Min(0.60, base)
}

// Assess runs the priority-ordered signal chain for one transaction.
// Exclusions always win; taxonomy and keywords beat recurrence; recurrence
// beats the large-credit heuristic; the taxonomy transfer-in demotion is
// only reached when nothing else fired.
func (d *Detector) Assess(txn model.Transaction, idx int, analysis *Analysis) Verdict {
	if !txn.IsCredit() {
		return Verdict{Reason: "not_credit"}
	}

	text := normalize.Normalize(txn.Description + " " + txn.MerchantName)

	if d.lib.IsTransfer(text) {
		return Verdict{Reason: "internal_transfer"}
	}

	if containsAny(text, loanKeywords) {
		return Verdict{Reason: "loan_provider"}
	}
	if _, ok := normalize.CanonicalLender(text); ok {
		return Verdict{Reason: "loan_provider"}
	}

	detailed := strings.ToUpper(txn.TaxonomyDetailed)
	if strings.Contains(detailed, "INCOME") {
		switch {
		case strings.Contains(detailed, "WAGES"),
			strings.Contains(detailed, "SALARY"),
			strings.Contains(detailed, "PAYROLL"):
			return Verdict{IsIncome: true, Confidence: 0.95, Reason: "taxonomy_wages", Subcategory: "salary"}
		case strings.Contains(detailed, "BENEFIT"), strings.Contains(detailed, "GOVERNMENT"):
			return Verdict{IsIncome: true, Confidence: 0.85, Reason: "taxonomy_benefits", Subcategory: "benefits"}
		case strings.Contains(detailed, "PENSION"), strings.Contains(detailed, "RETIREMENT"):
			return Verdict{IsIncome: true, Confidence: 0.85, Reason: "taxonomy_pension", Subcategory: "pension"}
		default:
			return Verdict{IsIncome: true, Confidence: 0.85, Reason: "taxonomy_income", Subcategory: "other"}
		}
	}
	if strings.Contains(strings.ToUpper(txn.TaxonomyPrimary), "INCOME") {
		return Verdict{IsIncome: true, Confidence: 0.85, Reason: "taxonomy_income", Subcategory: "other"}
	}

	if containsAny(text, payrollKeywords) {
		return Verdict{IsIncome: true, Confidence: 0.95, Reason: "payroll_keyword", Subcategory: "salary"}
	}
	if containsAny(text, benefitKeywords) {
		return Verdict{IsIncome: true, Confidence: 0.92, Reason: "benefit_keyword", Subcategory: "benefits"}
	}
	if containsAny(text, pensionKeywords) {
		return Verdict{IsIncome: true, Confidence: 0.90, Reason: "pension_keyword", Subcategory: "pension"}
	}

	// A lone credit needs a named employer, not just any legal suffix;
	// recurring clusters get the looser suffix test because the cadence
	// corroborates.
	if normalize.LooksLikeEmployer(text) && txn.AbsAmount() >= d.cfg.EmployerMinAmount {
		return Verdict{IsIncome: true, Confidence: 0.90, Reason: "employer_suffix", Subcategory: "salary"}
	}
	if hasFasterPaymentPrefix(text) && txn.AbsAmount() >= d.cfg.EmployerMinAmount {
		return Verdict{IsIncome: true, Confidence: 0.88, Reason: "faster_payment_prefix", Subcategory: "salary"}
	}

	if src, ok := analysis.SourceFor(idx); ok {
		return Verdict{
			IsIncome:    true,
			Confidence:  src.Confidence,
			Reason:      "recurring_source",
			Subcategory: string(src.SourceType),
		}
	}

	if txn.AbsAmount() >= d.cfg.LargeCreditAmount && normalize.HasNamedPayer(text) {
		return Verdict{IsIncome: true, Confidence: 0.75, Reason: "large_named_credit", Subcategory: "other"}
	}

	if strings.HasPrefix(detailed, "TRANSFER_IN") {
		return Verdict{Reason: "taxonomy_transfer_in"}
	}

	return Verdict{Reason: "no_signal"}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasFasterPaymentPrefix(text string) bool {
	return strings.HasPrefix(text, "FP-") || strings.Contains(text, " FP-")
}
