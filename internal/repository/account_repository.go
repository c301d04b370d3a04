package repository

import (
	"database/sql"
	"fmt"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{db: tx}
}

const accountColumns = `
	id, username, real_name, user_type, virtual_account,
	cash_balance, unsettled_cash, risk_level, status, is_qualified_investor, created_at
`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	var createdAtStr string

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.RealName,
		&a.UserType,
		&a.VirtualAccount,
		&a.CashBalance,
		&a.UnsettledCash,
		&a.RiskLevel,
		&a.Status,
		&a.IsQualifiedInvestor,
		&createdAtStr,
	)
	if err != nil {
		return a, err
	}

	a.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return a, err
	}
	return a, nil
}

// GetAccount retrieves a single account by ID.
// Returns apperrors.ErrAccountNotFound if no account exists.
func (r *AccountRepository) GetAccount(id string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE id = ?`

	a, err := scanAccount(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to scan account table results: %w", err)
	}
	return a, nil
}

// ListAccounts retrieves all accounts ordered by creation time.
func (r *AccountRepository) ListAccounts() ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account ORDER BY created_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account table results: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}
	return accounts, nil
}

// InsertAccount creates a new account row.
func (r *AccountRepository) InsertAccount(a *model.Account) error {
	query := `
		INSERT INTO account (
			id, username, real_name, user_type, virtual_account,
			cash_balance, unsettled_cash, risk_level, status, is_qualified_investor, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		a.ID, a.Username, a.RealName, a.UserType, a.VirtualAccount,
		a.CashBalance, a.UnsettledCash, a.RiskLevel, a.Status, a.IsQualifiedInvestor,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// UpdateBalances writes both cash quantities of an account.
// Callers compute the new values inside a transaction; the CHECK
// constraints on the table reject negative results.
func (r *AccountRepository) UpdateBalances(id string, cashBalance, unsettledCash float64) error {
	result, err := r.db.Exec(
		`UPDATE account SET cash_balance = ?, unsettled_cash = ? WHERE id = ?`,
		cashBalance, unsettledCash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// UpdateRiskLevel sets the account's risk tolerance level.
func (r *AccountRepository) UpdateRiskLevel(id string, riskLevel int) error {
	result, err := r.db.Exec(`UPDATE account SET risk_level = ? WHERE id = ?`, riskLevel, id)
	if err != nil {
		return fmt.Errorf("failed to update account risk level: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update account risk level: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
