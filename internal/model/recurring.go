package model

// FrequencyBand classifies the cadence of a recurring payment stream.
type FrequencyBand string

// Frequency band constants.
const (
	BandWeekly      FrequencyBand = "weekly"
	BandFortnightly FrequencyBand = "fortnightly"
	BandMonthly     FrequencyBand = "monthly"
	BandQuarterly   FrequencyBand = "quarterly"
	BandNone        FrequencyBand = ""
)

// IncomeSourceType labels what kind of income a recurring stream looks like.
type IncomeSourceType string

// Income source type constants.
const (
	SourceSalary   IncomeSourceType = "salary"
	SourceBenefits IncomeSourceType = "benefits"
	SourcePension  IncomeSourceType = "pension"
	SourceUnknown  IncomeSourceType = "unknown"
)

// RecurringIncomeSource is a cluster of credit transactions sharing a
// near-equal amount and a regular interval. Transient: computed per
// classification run from the full window and discarded with it.
type RecurringIncomeSource struct {
	Pattern          string // Normalized description the cluster groups on
	Band             FrequencyBand
	SourceType       IncomeSourceType
	Indices          []int // Positions in the applicant's transaction list
	AvgAmount        float64
	AmountStdDev     float64
	IntervalDays     float64
	Confidence       float64
	Occurrences      int
	DayOfMonthStable bool // Monthly clusters paid on a consistent day (±3)
}
