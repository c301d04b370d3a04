package repository

import (
	"database/sql"
	"fmt"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// NavRepository provides data access methods for the nav_record table.
type NavRepository struct {
	db DBTX
}

// NewNavRepository creates a new NavRepository with the provided database connection.
func NewNavRepository(db *sql.DB) *NavRepository {
	return &NavRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *NavRepository) WithTx(tx *sql.Tx) *NavRepository {
	return &NavRepository{db: tx}
}

const navColumns = `
	id, fund_id, nav_date, nav, nav_accumulated, daily_return_rate, created_at
`

func scanNavRecord(row interface{ Scan(...any) error }) (model.NavRecord, error) {
	var n model.NavRecord
	var navDateStr, createdAtStr string

	err := row.Scan(
		&n.ID,
		&n.FundID,
		&navDateStr,
		&n.Nav,
		&n.NavAccumulated,
		&n.DailyReturnRate,
		&createdAtStr,
	)
	if err != nil {
		return n, err
	}

	if n.NavDate, err = ParseTime(navDateStr); err != nil {
		return n, err
	}
	if n.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return n, err
	}
	return n, nil
}

// UpsertNavRecord inserts a NAV point or replaces the existing record for
// the same (fund, date). History is append/upsert-by-date only.
func (r *NavRepository) UpsertNavRecord(n *model.NavRecord) error {
	query := `
		INSERT INTO nav_record (id, fund_id, nav_date, nav, nav_accumulated, daily_return_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fund_id, nav_date) DO UPDATE SET
			nav = excluded.nav,
			nav_accumulated = excluded.nav_accumulated,
			daily_return_rate = excluded.daily_return_rate
	`

	_, err := r.db.Exec(query,
		n.ID, n.FundID, formatDate(n.NavDate), n.Nav, n.NavAccumulated, n.DailyReturnRate,
		formatTime(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert nav record: %w", err)
	}
	return nil
}

// ListByFund retrieves the full NAV history of a fund sorted ascending by date.
func (r *NavRepository) ListByFund(fundID string) ([]model.NavRecord, error) {
	query := `SELECT ` + navColumns + ` FROM nav_record WHERE fund_id = ? ORDER BY nav_date ASC`

	rows, err := r.db.Query(query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nav_record table: %w", err)
	}
	defer rows.Close()

	records := []model.NavRecord{}
	for rows.Next() {
		n, err := scanNavRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nav_record table results: %w", err)
		}
		records = append(records, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nav_record table: %w", err)
	}
	return records, nil
}

// GetLatest returns the record with the maximum nav_date for a fund, or
// sql.ErrNoRows wrapped when the fund has no history yet.
func (r *NavRepository) GetLatest(fundID string) (model.NavRecord, error) {
	query := `SELECT ` + navColumns + ` FROM nav_record
		WHERE fund_id = ?
		ORDER BY nav_date DESC
		LIMIT 1`

	n, err := scanNavRecord(r.db.QueryRow(query, fundID))
	if err == sql.ErrNoRows {
		return model.NavRecord{}, err
	}
	if err != nil {
		return model.NavRecord{}, fmt.Errorf("failed to scan nav_record table results: %w", err)
	}
	return n, nil
}
