// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single bank transaction for one applicant.
//
// Sign convention follows the upstream aggregator: negative amounts are
// credits (money in), positive amounts are debits (money out).
type Transaction struct {
	Date             time.Time
	Description      string // Raw transaction description
	MerchantName     string // Cleaned merchant name, when the source provides one
	TaxonomyPrimary  string // Third-party taxonomy primary category (e.g. TRANSFER_IN)
	TaxonomyDetailed string // Third-party taxonomy detailed category
	Amount           float64
}

// IsCredit reports whether the transaction is money in.
func (t Transaction) IsCredit() bool {
	return t.Amount < 0
}

// AbsAmount returns the unsigned transaction amount.
func (t Transaction) AbsAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// HasDate reports whether the transaction carries a usable date. Transactions
// with malformed source dates are still classified, but excluded from
// time-bucketed metrics.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// Hash returns a stable identifier for duplicate detection and audit rows.
func (t Transaction) Hash() string {
	data := fmt.Sprintf("%s:%.2f:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}

// LoanRequest is the applicant's requested loan.
type LoanRequest struct {
	Amount float64
	Term   int // months
}

// Applicant bundles one applicant's analysis window with their request.
type Applicant struct {
	Reference    string
	Transactions []Transaction
	Request      LoanRequest
}
