package repository

import "fmt"

// Aggregate queries consumed by the report service. Grouped here because
// they cut across single-row access patterns of the table repositories.

// CountAccounts returns the number of accounts.
func (r *AccountRepository) CountAccounts() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM account`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// SumBalances returns the platform-wide totals of settled and unsettled cash.
func (r *AccountRepository) SumBalances() (cash, unsettled float64, err error) {
	err = r.db.QueryRow(
		`SELECT COALESCE(SUM(cash_balance), 0), COALESCE(SUM(unsettled_cash), 0) FROM account`,
	).Scan(&cash, &unsettled)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum account balances: %w", err)
	}
	return cash, unsettled, nil
}

// CountFunds returns the number of fund products.
func (r *FundRepository) CountFunds() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM fund`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count funds: %w", err)
	}
	return count, nil
}

// SumTotalAssets returns the total asset value across all holdings.
func (r *HoldingRepository) SumTotalAssets() (float64, error) {
	var total float64
	if err := r.db.QueryRow(`SELECT COALESCE(SUM(total_asset), 0) FROM holding`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum holding assets: %w", err)
	}
	return total, nil
}

// CountByStatus returns the number of transactions per lifecycle status.
func (r *TransactionRepository) CountByStatus() (map[int]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM "transaction" GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan transaction counts: %w", err)
		}
		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction counts: %w", err)
	}
	return counts, nil
}
