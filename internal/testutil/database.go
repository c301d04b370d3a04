package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migration.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Account table
		CREATE TABLE account (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			real_name VARCHAR(100) NOT NULL,
			user_type INTEGER NOT NULL DEFAULT 2,
			virtual_account VARCHAR(20) NOT NULL,
			cash_balance FLOAT NOT NULL DEFAULT 0 CHECK (cash_balance >= 0),
			unsettled_cash FLOAT NOT NULL DEFAULT 0 CHECK (unsettled_cash >= 0),
			risk_level INTEGER NOT NULL DEFAULT 5,
			status INTEGER NOT NULL DEFAULT 1,
			is_qualified_investor BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Fund product table
		CREATE TABLE fund (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_code VARCHAR(10) NOT NULL UNIQUE,
			fund_name VARCHAR(100) NOT NULL,
			fund_type INTEGER NOT NULL,
			risk_level INTEGER NOT NULL,
			nav_current FLOAT NOT NULL,
			nav_accumulated FLOAT NOT NULL,
			daily_return_rate FLOAT NOT NULL DEFAULT 0,
			nav_initial FLOAT NOT NULL DEFAULT 1.0,
			subscription_fee_rate FLOAT NOT NULL DEFAULT 0,
			redemption_fee_rate FLOAT NOT NULL DEFAULT 0,
			management_fee_rate FLOAT NOT NULL DEFAULT 0,
			lockup_period_days INTEGER NOT NULL DEFAULT 0,
			settlement_cycle_days INTEGER NOT NULL DEFAULT 3,
			status INTEGER NOT NULL DEFAULT 2,
			manager VARCHAR(100),
			strategy VARCHAR(100),
			issue_date DATE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Holding table, one row per (user, fund) pair
		CREATE TABLE holding (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			fund_id VARCHAR(36) NOT NULL,
			shares FLOAT NOT NULL CHECK (shares >= 0),
			average_cost FLOAT NOT NULL,
			latest_nav FLOAT NOT NULL,
			total_asset FLOAT NOT NULL,
			profit_amount FLOAT NOT NULL DEFAULT 0,
			profit_rate FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES account(id) ON DELETE CASCADE,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE,
			CONSTRAINT unique_user_fund UNIQUE (user_id, fund_id)
		);

		-- Transaction table (quoted because transaction is a reserved keyword)
		CREATE TABLE "transaction" (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			trade_no VARCHAR(20) NOT NULL UNIQUE,
			user_id VARCHAR(36) NOT NULL,
			fund_id VARCHAR(36),
			trade_type INTEGER NOT NULL,
			amount FLOAT NOT NULL,
			shares FLOAT NOT NULL DEFAULT 0,
			nav FLOAT NOT NULL DEFAULT 1,
			fee FLOAT NOT NULL DEFAULT 0,
			actual_amount FLOAT NOT NULL,
			status INTEGER NOT NULL,
			remark VARCHAR(255),
			fund_code VARCHAR(10),
			fund_name VARCHAR(100),
			signature TEXT,
			apply_time DATETIME NOT NULL,
			cooling_off_deadline DATETIME,
			settle_time DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES account(id) ON DELETE CASCADE,
			FOREIGN KEY(fund_id) REFERENCES fund(id)
		);

		-- NAV history, one row per (fund, date)
		CREATE TABLE nav_record (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_id VARCHAR(36) NOT NULL,
			nav_date DATE NOT NULL,
			nav FLOAT NOT NULL CHECK (nav > 0),
			nav_accumulated FLOAT NOT NULL,
			daily_return_rate FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(fund_id) REFERENCES fund(id) ON DELETE CASCADE,
			CONSTRAINT unique_fund_nav_date UNIQUE (fund_id, nav_date)
		);

		-- Dividend distribution log, one row per fund-wide event
		CREATE TABLE dividend_record (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			dividend_no VARCHAR(20) NOT NULL UNIQUE,
			fund_id VARCHAR(36) NOT NULL,
			fund_name VARCHAR(100) NOT NULL,
			dividend_date DATE NOT NULL,
			dividend_type INTEGER NOT NULL,
			dividend_per_share FLOAT NOT NULL,
			total_amount FLOAT NOT NULL,
			affected_holder_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(fund_id) REFERENCES fund(id)
		);

		-- Append-only operation log
		CREATE TABLE operation_log (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			actor VARCHAR(100) NOT NULL,
			action_type VARCHAR(30) NOT NULL,
			target VARCHAR(100) NOT NULL,
			description VARCHAR(255) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX ix_holding_user_id ON holding(user_id);
		CREATE INDEX ix_holding_fund_id ON holding(fund_id);
		CREATE INDEX ix_transaction_user_id ON "transaction"(user_id);
		CREATE INDEX ix_transaction_fund_id ON "transaction"(fund_id);
		CREATE INDEX ix_transaction_status ON "transaction"(status);
		CREATE INDEX ix_nav_record_fund_id_date ON nav_record(fund_id, nav_date);
		CREATE INDEX ix_dividend_record_fund_id ON dividend_record(fund_id);
		CREATE INDEX ix_operation_log_created_at ON operation_log(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"operation_log",
		"dividend_record",
		"nav_record",
		"transaction",
		"holding",
		"fund",
		"account",
	}

	for _, table := range tables {
		query := "DELETE FROM \"" + table + "\""
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM \"" + table + "\""
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
