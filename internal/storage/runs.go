package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/underwrite/internal/common"
	"github.com/ledgerline/underwrite/internal/model"
)

// RunRecord is a persisted scoring run.
type RunRecord struct {
	ID              string
	Reference       string
	Decision        model.Decision
	Score           float64
	RequestedAmount float64
	RequestedTerm   int
	Offer           model.LoanOffer
	DeclineReasons  []string
	ReferReasons    []string
	CreatedAt       time.Time
}

// AuditRow is one persisted transaction classification from a run.
type AuditRow struct {
	RunID       string
	Date        *time.Time
	Amount      float64
	Description string
	Category    string
	Subcategory string
	Method      string
	Confidence  float64
	Weight      float64
}

// SaveRun persists a scoring result and its classification audit trail in a
// single transaction, returning the new run's ID.
func (s *Store) SaveRun(ctx context.Context, result model.ScoringResult, req model.LoanRequest, classified []model.ClassifiedTransaction) (string, error) {
	runID := uuid.New().String()

	declineJSON, err := json.Marshal(result.DeclineReasons)
	if err != nil {
		return "", fmt.Errorf("failed to marshal decline reasons: %w", err)
	}
	referJSON, err := json.Marshal(result.ReferReasons)
	if err != nil {
		return "", fmt.Errorf("failed to marshal refer reasons: %w", err)
	}
	breakdownJSON, err := json.Marshal(result.Breakdown)
	if err != nil {
		return "", fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	var offer model.LoanOffer
	if result.Offer != nil {
		offer = *result.Offer
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scoring_runs (
			id, reference, decision, score,
			requested_amount, requested_term,
			offer_principal, offer_term, offer_monthly, offer_total,
			decline_reasons, refer_reasons, breakdown
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.Reference, string(result.Decision), result.Score,
		req.Amount, req.Term,
		offer.Principal, offer.TermMonths, offer.MonthlyRepayment, offer.TotalRepayable,
		string(declineJSON), string(referJSON), string(breakdownJSON))
	if err != nil {
		return "", fmt.Errorf("failed to insert scoring run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classification_audit (
			run_id, txn_date, amount, description,
			category, subcategory, method, confidence, weight
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare audit insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ct := range classified {
		var date any
		if ct.Transaction.HasDate() {
			date = ct.Transaction.Date
		}
		_, err = stmt.ExecContext(ctx,
			runID, date, ct.Transaction.Amount, ct.Transaction.Description,
			string(ct.Result.Category), ct.Result.Subcategory,
			string(ct.Result.Method), ct.Result.Confidence,
			ct.Result.Weight)
		if err != nil {
			return "", fmt.Errorf("failed to insert audit row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit scoring run: %w", err)
	}
	return runID, nil
}

// GetRun fetches one scoring run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, reference, decision, score,
			requested_amount, requested_term,
			offer_principal, offer_term, offer_monthly, offer_total,
			decline_reasons, refer_reasons, created_at
		FROM scoring_runs WHERE id = ?`, runID)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scoring run %s: %w", runID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scoring run: %w", err)
	}
	return rec, nil
}

// ListRuns fetches all scoring runs for an applicant reference, newest first.
func (s *Store) ListRuns(ctx context.Context, reference string) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reference, decision, score,
			requested_amount, requested_term,
			offer_principal, offer_term, offer_monthly, offer_total,
			decline_reasons, refer_reasons, created_at
		FROM scoring_runs WHERE reference = ?
		ORDER BY created_at DESC`, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to list scoring runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []RunRecord
	for rows.Next() {
		rec, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan scoring run: %w", scanErr)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scoring runs: %w", err)
	}
	return records, nil
}

// GetAudit fetches the classification audit rows for a run.
func (s *Store) GetAudit(ctx context.Context, runID string) ([]AuditRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, txn_date, amount, description,
			category, subcategory, method, confidence, weight
		FROM classification_audit WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var audit []AuditRow
	for rows.Next() {
		var a AuditRow
		var date sql.NullTime
		if err := rows.Scan(&a.RunID, &date, &a.Amount, &a.Description,
			&a.Category, &a.Subcategory, &a.Method, &a.Confidence, &a.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		if date.Valid {
			d := date.Time
			a.Date = &d
		}
		audit = append(audit, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit rows: %w", err)
	}
	return audit, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var decision, declineJSON, referJSON string
	if err := row.Scan(&rec.ID, &rec.Reference, &decision, &rec.Score,
		&rec.RequestedAmount, &rec.RequestedTerm,
		&rec.Offer.Principal, &rec.Offer.TermMonths,
		&rec.Offer.MonthlyRepayment, &rec.Offer.TotalRepayable,
		&declineJSON, &referJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Decision = model.Decision(decision)
	if err := json.Unmarshal([]byte(declineJSON), &rec.DeclineReasons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decline reasons: %w", err)
	}
	if err := json.Unmarshal([]byte(referJSON), &rec.ReferReasons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refer reasons: %w", err)
	}
	return &rec, nil
}
