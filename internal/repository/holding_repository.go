package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db DBTX
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{db: tx}
}

const holdingColumns = `
	id, user_id, fund_id, shares, average_cost, latest_nav,
	total_asset, profit_amount, profit_rate, created_at, updated_at
`

func scanHolding(row interface{ Scan(...any) error }) (model.Holding, error) {
	var h model.Holding
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.FundID,
		&h.Shares,
		&h.AverageCost,
		&h.LatestNav,
		&h.TotalAsset,
		&h.ProfitAmount,
		&h.ProfitRate,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return h, err
	}

	if h.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return h, err
	}
	if h.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return h, err
	}
	return h, nil
}

// GetHolding retrieves a holding by its ID.
// Returns apperrors.ErrHoldingNotFound if no holding exists.
func (r *HoldingRepository) GetHolding(id string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE id = ?`

	h, err := scanHolding(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}
	return h, nil
}

// GetByUserAndFund retrieves the unique holding for a (user, fund) pair.
// Returns apperrors.ErrHoldingNotFound if the user holds nothing in the fund.
func (r *HoldingRepository) GetByUserAndFund(userID, fundID string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE user_id = ? AND fund_id = ?`

	h, err := scanHolding(r.db.QueryRow(query, userID, fundID))
	if err == sql.ErrNoRows {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}
	return h, nil
}

// ListByUser retrieves all holdings of a user enriched with fund metadata.
func (r *HoldingRepository) ListByUser(userID string) ([]model.HoldingResponse, error) {
	query := `
		SELECT h.id, h.user_id, h.fund_id, h.shares, h.average_cost, h.latest_nav,
			h.total_asset, h.profit_amount, h.profit_rate, h.created_at, h.updated_at,
			f.fund_code, f.fund_name
		FROM holding h
		JOIN fund f ON h.fund_id = f.id
		WHERE h.user_id = ?
		ORDER BY f.fund_code ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.HoldingResponse{}
	for rows.Next() {
		var h model.HoldingResponse
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&h.ID, &h.UserID, &h.FundID, &h.Shares, &h.AverageCost, &h.LatestNav,
			&h.TotalAsset, &h.ProfitAmount, &h.ProfitRate, &createdAtStr, &updatedAtStr,
			&h.FundCode, &h.FundName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}
		if h.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		if h.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}
	return holdings, nil
}

// ListByFund retrieves all holdings on a fund. Used by the dividend and
// liquidation paths, which must read every holder's position before
// mutating any of them.
func (r *HoldingRepository) ListByFund(fundID string) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE fund_id = ? ORDER BY created_at ASC`

	rows, err := r.db.Query(query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}
	return holdings, nil
}

// InsertHolding creates a new holding row.
func (r *HoldingRepository) InsertHolding(h *model.Holding) error {
	query := `
		INSERT INTO holding (
			id, user_id, fund_id, shares, average_cost, latest_nav,
			total_asset, profit_amount, profit_rate, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		h.ID, h.UserID, h.FundID, h.Shares, h.AverageCost, h.LatestNav,
		h.TotalAsset, h.ProfitAmount, h.ProfitRate,
		formatTime(h.CreatedAt), formatTime(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// UpdateHolding writes the mutable position fields of a holding.
func (r *HoldingRepository) UpdateHolding(h *model.Holding) error {
	query := `
		UPDATE holding SET
			shares = ?, average_cost = ?, latest_nav = ?,
			total_asset = ?, profit_amount = ?, profit_rate = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		h.Shares, h.AverageCost, h.LatestNav,
		h.TotalAsset, h.ProfitAmount, h.ProfitRate, formatTime(time.Now()),
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}

// DeleteHolding removes a holding row. Used when shares fall under
// model.HoldingEpsilon.
func (r *HoldingRepository) DeleteHolding(id string) error {
	if _, err := r.db.Exec(`DELETE FROM holding WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// DeleteByFund removes every holding on a fund. Used by forced liquidation
// after all holder credits have been computed.
func (r *HoldingRepository) DeleteByFund(fundID string) error {
	if _, err := r.db.Exec(`DELETE FROM holding WHERE fund_id = ?`, fundID); err != nil {
		return fmt.Errorf("failed to delete holdings for fund: %w", err)
	}
	return nil
}

// RevalueByFund applies a new NAV to every holding on a fund in one
// statement: latest_nav, total_asset, profit_amount and profit_rate are
// recomputed together so no reader observes a fund with updated NAV but
// stale holding valuations.
func (r *HoldingRepository) RevalueByFund(fundID string, nav float64) error {
	query := `
		UPDATE holding SET
			latest_nav = ?,
			total_asset = shares * ?,
			profit_amount = shares * ? - average_cost * shares,
			profit_rate = CASE WHEN average_cost > 0 THEN (? - average_cost) / average_cost ELSE 0 END,
			updated_at = ?
		WHERE fund_id = ?
	`

	_, err := r.db.Exec(query, nav, nav, nav, nav, formatTime(time.Now()), fundID)
	if err != nil {
		return fmt.Errorf("failed to revalue holdings: %w", err)
	}
	return nil
}
