package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

const transactionColumns = `
	id, trade_no, user_id, fund_id, trade_type, amount, shares, nav, fee,
	actual_amount, status, remark, fund_code, fund_name, signature,
	apply_time, cooling_off_deadline, settle_time, created_at
`

func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var t model.Transaction
	var fundID, remark, fundCode, fundName, signature sql.NullString
	var coolingOffStr, settleTimeStr sql.NullString
	var applyTimeStr, createdAtStr string

	err := row.Scan(
		&t.ID,
		&t.TradeNo,
		&t.UserID,
		&fundID,
		&t.TradeType,
		&t.Amount,
		&t.Shares,
		&t.Nav,
		&t.Fee,
		&t.ActualAmount,
		&t.Status,
		&remark,
		&fundCode,
		&fundName,
		&signature,
		&applyTimeStr,
		&coolingOffStr,
		&settleTimeStr,
		&createdAtStr,
	)
	if err != nil {
		return t, err
	}

	t.FundID = fundID.String
	t.Remark = remark.String
	t.FundCode = fundCode.String
	t.FundName = fundName.String
	t.Signature = signature.String

	if t.ApplyTime, err = ParseTime(applyTimeStr); err != nil {
		return t, err
	}
	if t.CoolingOffDeadline, err = parseNullTime(coolingOffStr); err != nil {
		return t, err
	}
	if t.SettleTime, err = parseNullTime(settleTimeStr); err != nil {
		return t, err
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return t, err
	}
	return t, nil
}

// GetTransaction retrieves a single transaction by ID.
// Returns apperrors.ErrTransactionNotFound if no transaction exists.
func (r *TransactionRepository) GetTransaction(id string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE id = ?`

	t, err := scanTransaction(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}
	return t, nil
}

// ListTransactions retrieves transactions, newest first. An empty userID
// returns the full trade log.
func (r *TransactionRepository) ListTransactions(userID string) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction"`

	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY apply_time DESC`

	return r.list(query, args...)
}

// ListByStatus retrieves all transactions in any of the given statuses,
// oldest first. The settlement sweep uses this to scan CoolingOff and
// Settling records in one pass.
func (r *TransactionRepository) ListByStatus(statuses ...int) ([]model.Transaction, error) {
	if len(statuses) == 0 {
		return []model.Transaction{}, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		placeholders[i] = "?"
		args[i] = s
	}

	query := `SELECT ` + transactionColumns + ` FROM "transaction"
		WHERE status IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY apply_time ASC`

	return r.list(query, args...)
}

func (r *TransactionRepository) list(query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}
	return transactions, nil
}

// InsertTransaction appends a new record to the trade log.
func (r *TransactionRepository) InsertTransaction(t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (
			id, trade_no, user_id, fund_id, trade_type, amount, shares, nav, fee,
			actual_amount, status, remark, fund_code, fund_name, signature,
			apply_time, cooling_off_deadline, settle_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var fundID any
	if t.FundID != "" {
		fundID = t.FundID
	}

	_, err := r.db.Exec(query,
		t.ID, t.TradeNo, t.UserID, fundID, t.TradeType, t.Amount, t.Shares, t.Nav, t.Fee,
		t.ActualAmount, t.Status, t.Remark, t.FundCode, t.FundName, t.Signature,
		formatTime(t.ApplyTime), formatNullTime(t.CoolingOffDeadline), formatNullTime(t.SettleTime),
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateStatus transitions a transaction to a new status, optionally
// replacing its remark. Core fields stay immutable.
func (r *TransactionRepository) UpdateStatus(id string, status int, remark string) error {
	query := `UPDATE "transaction" SET status = ?`
	args := []any{status}

	if remark != "" {
		query += `, remark = ?`
		args = append(args, remark)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
