package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// expectedSchemaVersion is the latest schema version the application expects.
const expectedSchemaVersion = 2

type migration struct {
	up          func(*sql.Tx) error
	description string
	version     int
}

var migrations = []migration{
	{
		version:     1,
		description: "Scoring runs",
		up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS scoring_runs (
					id TEXT PRIMARY KEY,
					reference TEXT NOT NULL,
					decision TEXT NOT NULL,
					score REAL NOT NULL,
					requested_amount REAL NOT NULL,
					requested_term INTEGER NOT NULL,
					offer_principal REAL NOT NULL DEFAULT 0,
					offer_term INTEGER NOT NULL DEFAULT 0,
					offer_monthly REAL NOT NULL DEFAULT 0,
					offer_total REAL NOT NULL DEFAULT 0,
					decline_reasons TEXT,
					refer_reasons TEXT,
					breakdown TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_scoring_runs_reference ON scoring_runs(reference)`,
				`CREATE INDEX idx_scoring_runs_created ON scoring_runs(created_at)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		version:     2,
		description: "Per-transaction classification audit",
		up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS classification_audit (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id TEXT NOT NULL,
					txn_date DATETIME,
					amount REAL NOT NULL,
					description TEXT NOT NULL,
					category TEXT NOT NULL,
					subcategory TEXT NOT NULL,
					method TEXT NOT NULL,
					confidence REAL NOT NULL,
					weight REAL NOT NULL,
					FOREIGN KEY (run_id) REFERENCES scoring_runs(id)
				)`,
				`CREATE INDEX idx_classification_audit_run ON classification_audit(run_id)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// migrate applies pending migrations, tracking the version with
// PRAGMA user_version.
func (s *Store) migrate(ctx context.Context) error {
	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := m.up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, commitErr)
		}

		slog.Info("Applied migration",
			"version", m.version,
			"description", m.description)
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != expectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", expectedSchemaVersion, finalVersion)
	}
	return nil
}
