package service_test

import (
	"errors"
	"testing"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/testutil"
)

// TestDividendService_ExecuteDividend tests fund-wide distributions.
//
// WHY: A distribution touches every holder of the fund in one transaction.
// Each holder must receive exactly shares times perShare, and the recorded
// totals must match what was actually paid.
func TestDividendService_ExecuteDividend(t *testing.T) {
	t.Run("cash dividend credits each holder proportionally", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		fund := testutil.NewFund().Build(t, db)
		first := testutil.NewAccount().WithCashBalance(0).Build(t, db)
		second := testutil.NewAccount().WithCashBalance(0).Build(t, db)
		testutil.NewHolding(first.ID, fund.ID).WithShares(1000).Build(t, db)
		testutil.NewHolding(second.ID, fund.ID).WithShares(2000).Build(t, db)

		// Execute
		record, err := svc.ExecuteDividend(fund.ID, request.DividendRequest{
			PerShare:     0.05,
			DividendType: model.DividendTypeCash,
		})

		// Assert
		if err != nil {
			t.Fatalf("ExecuteDividend() returned unexpected error: %v", err)
		}
		if record == nil {
			t.Fatal("Expected a dividend record, got nil")
		}
		if !approxEqual(record.TotalAmount, 150, 0.001) {
			t.Errorf("Expected total amount 150, got %.2f", record.TotalAmount)
		}
		if record.AffectedHolderCount != 2 {
			t.Errorf("Expected 2 affected holders, got %d", record.AffectedHolderCount)
		}

		accountRepo := repository.NewAccountRepository(db)
		firstAfter, _ := accountRepo.GetAccount(first.ID)
		if !approxEqual(firstAfter.CashBalance, 50, 0.001) {
			t.Errorf("Expected first holder credited 50, got %.2f", firstAfter.CashBalance)
		}
		secondAfter, _ := accountRepo.GetAccount(second.ID)
		if !approxEqual(secondAfter.CashBalance, 100, 0.001) {
			t.Errorf("Expected second holder credited 100, got %.2f", secondAfter.CashBalance)
		}

		// One trade-log row per holder plus the distribution record itself.
		testutil.AssertRowCount(t, db, "transaction", 2)
		testutil.AssertRowCount(t, db, "dividend_record", 1)
	})

	t.Run("reinvest dividend adds shares without changing cost basis", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		fund := testutil.NewFund().WithNav(1.25).Build(t, db)
		account := testutil.NewAccount().WithCashBalance(0).Build(t, db)
		testutil.NewHolding(account.ID, fund.ID).
			WithShares(1000).WithAverageCost(1.0).WithLatestNav(1.25).Build(t, db)

		// Execute
		record, err := svc.ExecuteDividend(fund.ID, request.DividendRequest{
			PerShare:     0.05,
			DividendType: model.DividendTypeReinvest,
		})

		// Assert
		if err != nil {
			t.Fatalf("ExecuteDividend() returned unexpected error: %v", err)
		}
		if record == nil {
			t.Fatal("Expected a dividend record, got nil")
		}

		// 1000 * 0.05 = 50 payout, reinvested at nav 1.25 buys 40 shares
		holdingRepo := repository.NewHoldingRepository(db)
		holding, _ := holdingRepo.GetByUserAndFund(account.ID, fund.ID)
		if !approxEqual(holding.Shares, 1040, 0.0001) {
			t.Errorf("Expected 1040 shares after reinvest, got %.4f", holding.Shares)
		}
		if !approxEqual(holding.AverageCost, 1.0, 0.0001) {
			t.Errorf("Expected cost basis unchanged at 1.0, got %.4f", holding.AverageCost)
		}

		accountRepo := repository.NewAccountRepository(db)
		untouched, _ := accountRepo.GetAccount(account.ID)
		if untouched.CashBalance != 0 {
			t.Errorf("Expected no cash credited on reinvest, got %.2f", untouched.CashBalance)
		}
	})

	t.Run("fund with no holders is a no-op", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		fund := testutil.NewFund().Build(t, db)

		// Execute
		record, err := svc.ExecuteDividend(fund.ID, request.DividendRequest{
			PerShare:     0.05,
			DividendType: model.DividendTypeCash,
		})

		// Assert
		if err != nil {
			t.Fatalf("ExecuteDividend() returned unexpected error: %v", err)
		}
		if record != nil {
			t.Errorf("Expected nil record for fund with no holders, got %+v", record)
		}
		testutil.AssertRowCount(t, db, "dividend_record", 0)
		testutil.AssertRowCount(t, db, "transaction", 0)
	})

	t.Run("rejects non-positive per-share amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		fund := testutil.NewFund().Build(t, db)

		_, err := svc.ExecuteDividend(fund.ID, request.DividendRequest{
			PerShare:     0,
			DividendType: model.DividendTypeCash,
		})

		if !errors.Is(err, apperrors.ErrInvalidAmount) {
			t.Fatalf("Expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("rejects unknown dividend type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		fund := testutil.NewFund().Build(t, db)

		_, err := svc.ExecuteDividend(fund.ID, request.DividendRequest{
			PerShare:     0.05,
			DividendType: 99,
		})

		if !errors.Is(err, apperrors.ErrInvalidAmount) {
			t.Fatalf("Expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("rejects unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		_, err := svc.ExecuteDividend(testutil.MakeID(), request.DividendRequest{
			PerShare:     0.05,
			DividendType: model.DividendTypeCash,
		})

		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Fatalf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

// TestDividendService_ListDividends tests the distribution history.
//
// WHY: The admin view lists past distributions newest first; an empty
// history must come back as an empty list, not an error.
func TestDividendService_ListDividends(t *testing.T) {
	t.Run("returns executed distributions", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		fund := testutil.NewFund().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewHolding(account.ID, fund.ID).WithShares(1000).Build(t, db)

		if _, err := svc.ExecuteDividend(fund.ID, request.DividendRequest{
			PerShare:     0.01,
			DividendType: model.DividendTypeCash,
		}); err != nil {
			t.Fatalf("ExecuteDividend() returned unexpected error: %v", err)
		}

		// Execute
		records, err := svc.ListDividends()

		// Assert
		if err != nil {
			t.Fatalf("ListDividends() returned unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}
		if records[0].FundID != fund.ID {
			t.Errorf("Expected fund ID %s, got %s", fund.ID, records[0].FundID)
		}
	})

	t.Run("returns empty list when nothing distributed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDividendService(t, db)

		records, err := svc.ListDividends()

		if err != nil {
			t.Fatalf("ListDividends() returned unexpected error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected empty list, got %d records", len(records))
		}
	})
}
