package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// newTradeNo builds a human-readable trade number with the given prefix
// ("TX" subscriptions, "RD" redemptions, "DEP" deposits, "DIV" dividends,
// "LIQ" liquidations).
func newTradeNo(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return prefix + id[:12]
}

// withTx runs fn inside a database transaction, committing on success and
// rolling back on error. Every public engine operation goes through this
// so its ledger mutations land together or not at all.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
