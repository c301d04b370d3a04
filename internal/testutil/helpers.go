package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/service"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/signing"
)

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	signer, err := signing.NewSigner("")
	if err != nil {
		t.Fatalf("Failed to create signer: %v", err)
	}

	return service.NewTradeService(
		db,
		repository.NewAccountRepository(db),
		repository.NewFundRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewOperationLogRepository(db),
		signer,
	)
}

func NewTestSettlementService(t *testing.T, db *sql.DB) *service.SettlementService {
	t.Helper()

	return service.NewSettlementService(
		db,
		repository.NewAccountRepository(db),
		repository.NewFundRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewOperationLogRepository(db),
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		db,
		repository.NewFundRepository(db),
		repository.NewNavRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewOperationLogRepository(db),
	)
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		db,
		repository.NewAccountRepository(db),
		repository.NewFundRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewDividendRepository(db),
		repository.NewOperationLogRepository(db),
	)
}

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	return service.NewFundService(
		db,
		repository.NewFundRepository(db),
		repository.NewOperationLogRepository(db),
	)
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(
		db,
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewOperationLogRepository(db),
	)
}

func NewTestReportService(t *testing.T, db *sql.DB) *service.ReportService {
	t.Helper()

	return service.NewReportService(
		repository.NewAccountRepository(db),
		repository.NewFundRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeUsername generates a unique username for testing.
//
// Example usage:
//
//	username := testutil.MakeUsername("investor")
//	// Returns: "investor_AB12CD"
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + randomAlphanumeric(6)
}

// MakeFundCode generates a unique six-digit style fund code for testing.
//
// Example usage:
//
//	code := testutil.MakeFundCode()
//	// Returns: "F1A2B3"
func MakeFundCode() string {
	return "F" + randomAlphanumeric(5)
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Growth Fund")
//	// Returns: "Growth Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
