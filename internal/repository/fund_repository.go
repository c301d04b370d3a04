package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// FundRepository provides data access methods for the fund table.
type FundRepository struct {
	db DBTX
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{db: tx}
}

const fundColumns = `
	id, fund_code, fund_name, fund_type, risk_level,
	nav_current, nav_accumulated, daily_return_rate, nav_initial,
	subscription_fee_rate, redemption_fee_rate, management_fee_rate,
	lockup_period_days, settlement_cycle_days, status,
	manager, strategy, issue_date, created_at, updated_at
`

func scanFund(row interface{ Scan(...any) error }) (model.Fund, error) {
	var f model.Fund
	var manager, strategy, issueDateStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&f.ID,
		&f.FundCode,
		&f.FundName,
		&f.FundType,
		&f.RiskLevel,
		&f.NavCurrent,
		&f.NavAccumulated,
		&f.DailyReturnRate,
		&f.NavInitial,
		&f.SubscriptionFeeRate,
		&f.RedemptionFeeRate,
		&f.ManagementFeeRate,
		&f.LockupPeriodDays,
		&f.SettlementCycleDays,
		&f.Status,
		&manager,
		&strategy,
		&issueDateStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return f, err
	}

	f.Manager = manager.String
	f.Strategy = strategy.String

	if issueDate, err := parseNullTime(issueDateStr); err == nil && issueDate != nil {
		f.IssueDate = *issueDate
	}
	if f.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return f, err
	}
	if f.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return f, err
	}
	return f, nil
}

// GetFund retrieves a single fund by ID.
// Returns apperrors.ErrFundNotFound if no fund exists.
func (r *FundRepository) GetFund(id string) (model.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM fund WHERE id = ?`

	f, err := scanFund(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to scan fund table results: %w", err)
	}
	return f, nil
}

// ListFunds retrieves all funds ordered by fund code.
func (r *FundRepository) ListFunds() ([]model.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM fund ORDER BY fund_code ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund table: %w", err)
	}
	defer rows.Close()

	funds := []model.Fund{}
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund table results: %w", err)
		}
		funds = append(funds, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund table: %w", err)
	}
	return funds, nil
}

// InsertFund creates a new fund row.
func (r *FundRepository) InsertFund(f *model.Fund) error {
	query := `
		INSERT INTO fund (
			id, fund_code, fund_name, fund_type, risk_level,
			nav_current, nav_accumulated, daily_return_rate, nav_initial,
			subscription_fee_rate, redemption_fee_rate, management_fee_rate,
			lockup_period_days, settlement_cycle_days, status,
			manager, strategy, issue_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		f.ID, f.FundCode, f.FundName, f.FundType, f.RiskLevel,
		f.NavCurrent, f.NavAccumulated, f.DailyReturnRate, f.NavInitial,
		f.SubscriptionFeeRate, f.RedemptionFeeRate, f.ManagementFeeRate,
		f.LockupPeriodDays, f.SettlementCycleDays, f.Status,
		f.Manager, f.Strategy, formatDate(f.IssueDate),
		formatTime(f.CreatedAt), formatTime(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund: %w", err)
	}
	return nil
}

// UpdateFund writes the mutable product parameters of a fund.
// NAV fields are owned by the valuation path and not touched here.
func (r *FundRepository) UpdateFund(f *model.Fund) error {
	query := `
		UPDATE fund SET
			fund_name = ?, fund_type = ?, risk_level = ?, nav_initial = ?,
			subscription_fee_rate = ?, redemption_fee_rate = ?, management_fee_rate = ?,
			lockup_period_days = ?, settlement_cycle_days = ?, status = ?,
			manager = ?, strategy = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		f.FundName, f.FundType, f.RiskLevel, f.NavInitial,
		f.SubscriptionFeeRate, f.RedemptionFeeRate, f.ManagementFeeRate,
		f.LockupPeriodDays, f.SettlementCycleDays, f.Status,
		f.Manager, f.Strategy, formatTime(time.Now()),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update fund: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrFundNotFound
	}
	return nil
}

// UpdateCurrentNav writes the fund's live NAV triple.
func (r *FundRepository) UpdateCurrentNav(id string, nav, navAccumulated, dailyReturnRate float64) error {
	result, err := r.db.Exec(
		`UPDATE fund SET nav_current = ?, nav_accumulated = ?, daily_return_rate = ?, updated_at = ? WHERE id = ?`,
		nav, navAccumulated, dailyReturnRate, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund nav: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update fund nav: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrFundNotFound
	}
	return nil
}

// UpdateStatus sets the fund lifecycle status.
func (r *FundRepository) UpdateStatus(id string, status int) error {
	result, err := r.db.Exec(
		`UPDATE fund SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update fund status: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrFundNotFound
	}
	return nil
}
