package repository

import (
	"database/sql"
	"fmt"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// DividendRepository provides data access methods for the dividend_record table.
type DividendRepository struct {
	db DBTX
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *DividendRepository) WithTx(tx *sql.Tx) *DividendRepository {
	return &DividendRepository{db: tx}
}

// InsertDividendRecord appends one fund-wide distribution summary.
func (r *DividendRepository) InsertDividendRecord(d *model.DividendRecord) error {
	query := `
		INSERT INTO dividend_record (
			id, dividend_no, fund_id, fund_name, dividend_date, dividend_type,
			dividend_per_share, total_amount, affected_holder_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		d.ID, d.DividendNo, d.FundID, d.FundName, formatDate(d.DividendDate), d.DividendType,
		d.DividendPerShare, d.TotalAmount, d.AffectedHolderCount, formatTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dividend record: %w", err)
	}
	return nil
}

// ListDividendRecords retrieves all distribution events, newest first.
func (r *DividendRepository) ListDividendRecords() ([]model.DividendRecord, error) {
	query := `
		SELECT id, dividend_no, fund_id, fund_name, dividend_date, dividend_type,
			dividend_per_share, total_amount, affected_holder_count, created_at
		FROM dividend_record
		ORDER BY dividend_date DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_record table: %w", err)
	}
	defer rows.Close()

	records := []model.DividendRecord{}
	for rows.Next() {
		var d model.DividendRecord
		var dateStr, createdAtStr string

		err := rows.Scan(
			&d.ID, &d.DividendNo, &d.FundID, &d.FundName, &dateStr, &d.DividendType,
			&d.DividendPerShare, &d.TotalAmount, &d.AffectedHolderCount, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_record table results: %w", err)
		}
		if d.DividendDate, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		records = append(records, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_record table: %w", err)
	}
	return records, nil
}
