package model

// Category is the semantic category assigned to a transaction.
type Category string

// Category constants.
const (
	CategoryIncome    Category = "income"
	CategoryDebt      Category = "debt"
	CategoryEssential Category = "essential"
	CategoryRisk      Category = "risk"
	CategoryTransfer  Category = "transfer"
	CategoryPositive  Category = "positive"
	CategoryExpense   Category = "expense" // discretionary and unmatched debits
)

// MatchMethod indicates which mechanism produced a classification.
type MatchMethod string

// Match method constants.
const (
	MethodKeyword          MatchMethod = "keyword"
	MethodRegex            MatchMethod = "regex"
	MethodFuzzy            MatchMethod = "fuzzy"
	MethodTaxonomyStrict   MatchMethod = "taxonomy-strict"
	MethodTaxonomyFallback MatchMethod = "taxonomy-fallback"
	MethodBehavioral       MatchMethod = "behavioral"
	MethodDefault          MatchMethod = "default"
)

// RiskLevel grades how concerning a classified transaction is.
type RiskLevel string

// Risk level constants, ordered from benign to severe.
const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very-high"
	RiskCritical RiskLevel = "critical"
)

// ClassificationResult is the terminal outcome for one transaction. Produced
// once by the classifier and never mutated; every decision is reviewable via
// Step and Method.
type ClassificationResult struct {
	Category    Category
	Subcategory string
	Label       string // Human-readable category description
	Method      MatchMethod
	Step        string // Pipeline stage that resolved the transaction
	Reason      string // Detector or matcher rationale, when one applies
	Confidence  float64
	Weight      float64 // Income weight; 0 excludes from income sums
	RiskLevel   RiskLevel
	IsStable    bool
	IsHousing   bool
}

// ClassifiedTransaction pairs a transaction with its classification.
type ClassifiedTransaction struct {
	Transaction Transaction
	Result      ClassificationResult
}
