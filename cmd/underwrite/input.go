package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ledgerline/underwrite/internal/common"
	"github.com/ledgerline/underwrite/internal/model"
)

// applicantFile is the JSON input format for one application: the loan
// request plus the applicant's transaction history.
type applicantFile struct {
	Reference       string            `json:"reference"`
	RequestedAmount float64           `json:"requested_amount"`
	RequestedTerm   int               `json:"requested_term"`
	Transactions    []transactionJSON `json:"transactions"`
}

type transactionJSON struct {
	Date             string  `json:"date"`
	Description      string  `json:"description"`
	MerchantName     string  `json:"merchant_name,omitempty"`
	TaxonomyPrimary  string  `json:"taxonomy_primary,omitempty"`
	TaxonomyDetailed string  `json:"taxonomy_detailed,omitempty"`
	Amount           float64 `json:"amount"`
}

// loadApplicant reads one applicant JSON file. A transaction with a missing
// or malformed date keeps a zero date rather than failing the whole file.
func loadApplicant(path string) (model.Applicant, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied input file
	if err != nil {
		return model.Applicant{}, common.NewUserError("failed to read applicant file", err)
	}

	var file applicantFile
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Applicant{}, common.NewUserError(fmt.Sprintf("failed to parse applicant file %s", path), err)
	}

	if file.Reference == "" {
		base := filepath.Base(path)
		file.Reference = strings.TrimSuffix(base, filepath.Ext(base))
	}

	txns := make([]model.Transaction, 0, len(file.Transactions))
	seen := make(map[string]bool, len(file.Transactions))
	duplicates := 0
	for _, t := range file.Transactions {
		txn := model.Transaction{
			Date:             parseDate(t.Date),
			Description:      t.Description,
			MerchantName:     t.MerchantName,
			TaxonomyPrimary:  t.TaxonomyPrimary,
			TaxonomyDetailed: t.TaxonomyDetailed,
			Amount:           t.Amount,
		}
		// Repeated rows are kept: two identical card payments on one day are
		// a legitimate statement. The count is surfaced for export tooling
		// that double-feeds.
		if hash := txn.Hash(); seen[hash] {
			duplicates++
		} else {
			seen[hash] = true
		}
		txns = append(txns, txn)
	}
	if duplicates > 0 {
		common.LogDebug("applicant file contains repeated transaction rows", common.Fields{
			"reference":  file.Reference,
			"duplicates": duplicates,
		})
	}

	return model.Applicant{
		Reference:    file.Reference,
		Transactions: txns,
		Request: model.LoanRequest{
			Amount: file.RequestedAmount,
			Term:   file.RequestedTerm,
		},
	}, nil
}

// loadApplicantDir reads every .json file in a directory, sorted by name so
// batch output order is stable.
func loadApplicantDir(dir string) ([]model.Applicant, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no applicant files found in %s", dir)
	}

	apps := make([]model.Applicant, 0, len(paths))
	for _, path := range paths {
		app, err := loadApplicant(path)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
