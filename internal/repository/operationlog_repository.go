package repository

import (
	"database/sql"
	"fmt"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// OperationLogRepository provides data access methods for the append-only
// operation_log table.
type OperationLogRepository struct {
	db DBTX
}

// NewOperationLogRepository creates a new OperationLogRepository with the provided database connection.
func NewOperationLogRepository(db *sql.DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *OperationLogRepository) WithTx(tx *sql.Tx) *OperationLogRepository {
	return &OperationLogRepository{db: tx}
}

// InsertLog appends one audit entry.
func (r *OperationLogRepository) InsertLog(l *model.OperationLog) error {
	query := `
		INSERT INTO operation_log (id, actor, action_type, target, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, l.ID, l.Actor, l.ActionType, l.Target, l.Description, formatTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert operation log: %w", err)
	}
	return nil
}

// ListLogs retrieves audit entries, newest first, capped at limit.
// A non-positive limit returns the default page of 200 entries.
func (r *OperationLogRepository) ListLogs(limit int) ([]model.OperationLog, error) {
	if limit <= 0 {
		limit = 200
	}

	query := `
		SELECT id, actor, action_type, target, description, created_at
		FROM operation_log
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation_log table: %w", err)
	}
	defer rows.Close()

	logs := []model.OperationLog{}
	for rows.Next() {
		var l model.OperationLog
		var createdAtStr string

		err := rows.Scan(&l.ID, &l.Actor, &l.ActionType, &l.Target, &l.Description, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation_log table results: %w", err)
		}
		if l.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation_log table: %w", err)
	}
	return logs, nil
}
