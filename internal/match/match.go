// Package match evaluates normalized transaction text against pattern
// entries. Tiers run strongest first: exact keyword, then regex, then fuzzy
// similarity, so the reported confidence reflects how the match was made.
package match

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/ledgerline/underwrite/internal/model"
	"github.com/ledgerline/underwrite/internal/patterns"
)

// FuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy hit.
// Below this, near-misses are noise ("COSTA" vs "CORAL").
const FuzzyThreshold = 0.80

// minFuzzyKeywordLen guards against short tokens ("UC", "HP") fuzzy-matching
// half the alphabet.
const minFuzzyKeywordLen = 5

// Outcome describes how, if at all, an entry matched a piece of text.
type Outcome struct {
	Matched    bool
	Method     model.MatchMethod
	Confidence float64
	Pattern    string // the keyword or regex that hit
}

var jaroWinkler = metrics.NewJaroWinkler()

// Evaluate runs the entry's tiers against normalized (uppercase) text and
// returns the first hit. Keyword and regex tiers are exact; the fuzzy tier
// compares each keyword against whitespace tokens of the text.
func Evaluate(text string, entry *patterns.Entry) Outcome {
	for _, kw := range entry.Keywords {
		if strings.Contains(text, kw) {
			return Outcome{
				Matched:    true,
				Method:     model.MethodKeyword,
				Confidence: entry.KeywordConfidence,
				Pattern:    kw,
			}
		}
	}

	for i, re := range entry.Regexes {
		if re.MatchString(text) {
			return Outcome{
				Matched:    true,
				Method:     model.MethodRegex,
				Confidence: entry.RegexConfidence,
				Pattern:    entry.RegexPatterns[i],
			}
		}
	}

	if kw, sim, ok := fuzzyHit(text, entry.Keywords); ok {
		return Outcome{
			Matched:    true,
			Method:     model.MethodFuzzy,
			Confidence: sim,
			Pattern:    kw,
		}
	}

	return Outcome{}
}

// fuzzyHit returns the best keyword/token similarity at or above the
// threshold. The similarity itself becomes the match confidence.
func fuzzyHit(text string, keywords []string) (string, float64, bool) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return "", 0, false
	}
	var (
		bestKw  string
		bestSim float64
	)
	for _, kw := range keywords {
		if len(kw) < minFuzzyKeywordLen {
			continue
		}
		for _, tok := range tokens {
			if len(tok) < minFuzzyKeywordLen {
				continue
			}
			if sim := strutil.Similarity(tok, kw, jaroWinkler); sim >= FuzzyThreshold && sim > bestSim {
				bestKw, bestSim = kw, sim
			}
		}
	}
	return bestKw, bestSim, bestSim >= FuzzyThreshold
}

// EvaluateTable runs Evaluate over a table in order and returns the first
// entry whose match clears that entry's confidence floor.
func EvaluateTable(text string, table *patterns.Table) (*patterns.Entry, Outcome, bool) {
	for i := range table.Entries {
		entry := &table.Entries[i]
		out := Evaluate(text, entry)
		if out.Matched && out.Confidence >= entry.MinConfidence {
			return entry, out, true
		}
	}
	return nil, Outcome{}, false
}
