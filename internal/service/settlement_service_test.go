package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/testutil"
)

// TestSettlementService_ProcessSettlement tests the periodic sweep.
//
// WHY: The sweep runs unattended on a schedule and is the authoritative
// advance: it must move every pending transaction forward no matter what
// its advisory deadline says, and running it twice must never credit the
// same redemption twice.
func TestSettlementService_ProcessSettlement(t *testing.T) {
	t.Run("confirms every pending cooling-off subscription", func(t *testing.T) {
		// Setup: one deadline in the past, one in the future, one never
		// stamped. All three must confirm.
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		expired := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithCoolingOffDeadline(time.Now().UTC().Add(-time.Hour)).Build(t, db)
		early := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithCoolingOffDeadline(time.Now().UTC().Add(time.Hour)).Build(t, db)
		unstamped := testutil.NewTransaction(account.ID).WithFund(fund.ID).Build(t, db)

		// Execute
		result, err := svc.ProcessSettlement()

		// Assert
		if err != nil {
			t.Fatalf("ProcessSettlement() returned unexpected error: %v", err)
		}
		if result.Confirmed != 3 {
			t.Errorf("Expected 3 confirmed, got %d", result.Confirmed)
		}

		txRepo := repository.NewTransactionRepository(db)
		for _, id := range []string{expired.ID, early.ID, unstamped.ID} {
			updated, _ := txRepo.GetTransaction(id)
			if updated.Status != model.TradeStatusConfirmed {
				t.Errorf("Expected status %d (confirmed), got %d", model.TradeStatusConfirmed, updated.Status)
			}
		}
	})

	t.Run("settles a redemption on the first sweep after it is placed", func(t *testing.T) {
		// Setup: a fresh redemption carries a settle time days in the
		// future, but the next sweep must still complete it and release
		// the proceeds.
		db := testutil.SetupTestDB(t)
		trades := testutil.NewTestTradeService(t, db)
		svc := testutil.NewTestSettlementService(t, db)

		fund := testutil.NewFund().WithNav(1.10).WithRedemptionFeeRate(0.005).Build(t, db)
		account := testutil.NewAccount().WithCashBalance(0).Build(t, db)
		testutil.NewHolding(account.ID, fund.ID).WithShares(50000).WithLatestNav(1.10).Build(t, db)

		placed, err := trades.Redeem(request.RedeemRequest{UserID: account.ID, FundID: fund.ID, Shares: 50000})
		if err != nil {
			t.Fatalf("Redeem() returned unexpected error: %v", err)
		}

		// Execute
		result, err := svc.ProcessSettlement()

		// Assert
		if err != nil {
			t.Fatalf("ProcessSettlement() returned unexpected error: %v", err)
		}
		if result.Completed != 1 {
			t.Errorf("Expected 1 completed, got %d", result.Completed)
		}

		txRepo := repository.NewTransactionRepository(db)
		settled, _ := txRepo.GetTransaction(placed.ID)
		if settled.Status != model.TradeStatusCompleted {
			t.Errorf("Expected status %d (completed), got %d", model.TradeStatusCompleted, settled.Status)
		}

		accountRepo := repository.NewAccountRepository(db)
		after, _ := accountRepo.GetAccount(account.ID)
		if !approxEqual(after.CashBalance, 54725, 0.001) {
			t.Errorf("Expected balance 54725, got %.2f", after.CashBalance)
		}
		if !approxEqual(after.UnsettledCash, 0, 0.001) {
			t.Errorf("Expected unsettled cash 0, got %.2f", after.UnsettledCash)
		}
	})

	t.Run("completes settling redemptions and moves unsettled cash to balance", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().WithCashBalance(100).WithUnsettledCash(54725).Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		redemption := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithType(model.TradeTypeRedeem).
			WithStatus(model.TradeStatusSettling).
			WithAmount(54725).
			WithSettleTime(time.Now().UTC().Add(-time.Minute)).Build(t, db)

		// Execute
		result, err := svc.ProcessSettlement()

		// Assert
		if err != nil {
			t.Fatalf("ProcessSettlement() returned unexpected error: %v", err)
		}
		if result.Completed != 1 {
			t.Errorf("Expected 1 completed, got %d", result.Completed)
		}
		if !approxEqual(result.Settled, 54725, 0.001) {
			t.Errorf("Expected settled amount 54725, got %.2f", result.Settled)
		}

		txRepo := repository.NewTransactionRepository(db)
		updated, _ := txRepo.GetTransaction(redemption.ID)
		if updated.Status != model.TradeStatusCompleted {
			t.Errorf("Expected status %d (completed), got %d", model.TradeStatusCompleted, updated.Status)
		}

		accountRepo := repository.NewAccountRepository(db)
		settled, _ := accountRepo.GetAccount(account.ID)
		if !approxEqual(settled.CashBalance, 54825, 0.001) {
			t.Errorf("Expected balance 54825, got %.2f", settled.CashBalance)
		}
		if !approxEqual(settled.UnsettledCash, 0, 0.001) {
			t.Errorf("Expected unsettled cash 0, got %.2f", settled.UnsettledCash)
		}
	})

	t.Run("second sweep does not credit the same redemption again", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().WithCashBalance(0).WithUnsettledCash(1000).Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithType(model.TradeTypeRedeem).
			WithStatus(model.TradeStatusSettling).
			WithAmount(1000).
			WithSettleTime(time.Now().UTC().Add(-time.Minute)).Build(t, db)

		// Execute
		if _, err := svc.ProcessSettlement(); err != nil {
			t.Fatalf("First sweep returned unexpected error: %v", err)
		}
		second, err := svc.ProcessSettlement()

		// Assert
		if err != nil {
			t.Fatalf("Second sweep returned unexpected error: %v", err)
		}
		if second.Completed != 0 {
			t.Errorf("Expected second sweep to complete nothing, got %d", second.Completed)
		}

		accountRepo := repository.NewAccountRepository(db)
		final, _ := accountRepo.GetAccount(account.ID)
		if !approxEqual(final.CashBalance, 1000, 0.001) {
			t.Errorf("Expected balance 1000 after single credit, got %.2f", final.CashBalance)
		}
	})

	t.Run("aggregates multiple redemptions of one user into a single credit", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().WithCashBalance(0).WithUnsettledCash(300).Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		past := time.Now().UTC().Add(-time.Minute)
		testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithType(model.TradeTypeRedeem).WithStatus(model.TradeStatusSettling).
			WithAmount(100).WithSettleTime(past).Build(t, db)
		testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithType(model.TradeTypeRedeem).WithStatus(model.TradeStatusSettling).
			WithAmount(200).WithSettleTime(past).Build(t, db)

		// Execute
		result, err := svc.ProcessSettlement()

		// Assert
		if err != nil {
			t.Fatalf("ProcessSettlement() returned unexpected error: %v", err)
		}
		if result.Completed != 2 {
			t.Errorf("Expected 2 completed, got %d", result.Completed)
		}

		accountRepo := repository.NewAccountRepository(db)
		final, _ := accountRepo.GetAccount(account.ID)
		if !approxEqual(final.CashBalance, 300, 0.001) {
			t.Errorf("Expected balance 300, got %.2f", final.CashBalance)
		}
		if !approxEqual(final.UnsettledCash, 0, 0.001) {
			t.Errorf("Expected unsettled cash 0, got %.2f", final.UnsettledCash)
		}
	})
}

// TestSettlementService_AuditTransaction tests the admin confirm/reject
// decision.
//
// WHY: A reject must be a true reversal. Refunding a subscription without
// removing its shares, or restoring redeemed shares while leaving the
// unsettled credit in place, would let a user double their money with one
// rejected trade.
func TestSettlementService_AuditTransaction(t *testing.T) {
	t.Run("confirm advances a cooling-off subscription", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		pending := testutil.NewTransaction(account.ID).WithFund(fund.ID).Build(t, db)

		// Execute
		audited, err := svc.AuditTransaction(pending.ID, request.AuditRequest{Action: "confirm"})

		// Assert
		if err != nil {
			t.Fatalf("AuditTransaction() returned unexpected error: %v", err)
		}
		if audited.Status != model.TradeStatusConfirmed {
			t.Errorf("Expected status %d (confirmed), got %d", model.TradeStatusConfirmed, audited.Status)
		}
	})

	t.Run("confirm completes a settling redemption early with credit", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().WithCashBalance(0).WithUnsettledCash(500).Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		settling := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithType(model.TradeTypeRedeem).
			WithStatus(model.TradeStatusSettling).
			WithAmount(500).
			WithSettleTime(time.Now().UTC().Add(24 * time.Hour)).Build(t, db)

		// Execute
		audited, err := svc.AuditTransaction(settling.ID, request.AuditRequest{Action: "confirm"})

		// Assert
		if err != nil {
			t.Fatalf("AuditTransaction() returned unexpected error: %v", err)
		}
		if audited.Status != model.TradeStatusCompleted {
			t.Errorf("Expected status %d (completed), got %d", model.TradeStatusCompleted, audited.Status)
		}

		accountRepo := repository.NewAccountRepository(db)
		credited, _ := accountRepo.GetAccount(account.ID)
		if !approxEqual(credited.CashBalance, 500, 0.001) {
			t.Errorf("Expected balance 500, got %.2f", credited.CashBalance)
		}
		if !approxEqual(credited.UnsettledCash, 0, 0.001) {
			t.Errorf("Expected unsettled cash 0, got %.2f", credited.UnsettledCash)
		}
	})

	t.Run("reject refunds a subscription and removes its shares", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().WithCashBalance(400000).Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		testutil.NewHolding(account.ID, fund.ID).WithShares(100000).Build(t, db)
		subscription := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithAmount(100000).WithShares(100000).
			WithCoolingOffDeadline(time.Now().UTC().Add(time.Hour)).Build(t, db)

		// Execute
		audited, err := svc.AuditTransaction(subscription.ID, request.AuditRequest{Action: "reject"})

		// Assert
		if err != nil {
			t.Fatalf("AuditTransaction() returned unexpected error: %v", err)
		}
		if audited.Status != model.TradeStatusRejected {
			t.Errorf("Expected status %d (rejected), got %d", model.TradeStatusRejected, audited.Status)
		}
		if audited.Remark != "rejected by administrator" {
			t.Errorf("Expected default reject remark, got %q", audited.Remark)
		}

		accountRepo := repository.NewAccountRepository(db)
		refunded, _ := accountRepo.GetAccount(account.ID)
		if !approxEqual(refunded.CashBalance, 500000, 0.001) {
			t.Errorf("Expected balance 500000 after refund, got %.2f", refunded.CashBalance)
		}
		testutil.AssertRowCount(t, db, "holding", 0)
	})

	t.Run("reject restores redeemed shares and cancels the unsettled credit", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().WithCashBalance(0).WithUnsettledCash(54725).Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		redemption := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithType(model.TradeTypeRedeem).
			WithStatus(model.TradeStatusSettling).
			WithAmount(54725).WithShares(50000).
			WithSettleTime(time.Now().UTC().Add(24 * time.Hour)).Build(t, db)

		// Execute: the holding was fully redeemed away, so the reject must
		// recreate it.
		_, err := svc.AuditTransaction(redemption.ID, request.AuditRequest{Action: "reject"})

		// Assert
		if err != nil {
			t.Fatalf("AuditTransaction() returned unexpected error: %v", err)
		}

		accountRepo := repository.NewAccountRepository(db)
		reversed, _ := accountRepo.GetAccount(account.ID)
		if !approxEqual(reversed.UnsettledCash, 0, 0.001) {
			t.Errorf("Expected unsettled cash cancelled, got %.2f", reversed.UnsettledCash)
		}
		if reversed.CashBalance != 0 {
			t.Errorf("Expected spendable balance untouched at 0, got %.2f", reversed.CashBalance)
		}

		holdingRepo := repository.NewHoldingRepository(db)
		holding, err := holdingRepo.GetByUserAndFund(account.ID, fund.ID)
		if err != nil {
			t.Fatalf("Expected holding to be recreated: %v", err)
		}
		if !approxEqual(holding.Shares, 50000, 0.0001) {
			t.Errorf("Expected 50000 shares restored, got %.4f", holding.Shares)
		}
	})

	t.Run("rejects audit of a terminal transaction", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		completed := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithStatus(model.TradeStatusCompleted).Build(t, db)

		// Execute
		_, err := svc.AuditTransaction(completed.ID, request.AuditRequest{Action: "confirm"})

		// Assert
		if !errors.Is(err, apperrors.ErrTransactionTerminal) {
			t.Fatalf("Expected ErrTransactionTerminal, got %v", err)
		}
	})

	t.Run("rejects unknown audit action", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		account := testutil.NewAccount().Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		pending := testutil.NewTransaction(account.ID).WithFund(fund.ID).Build(t, db)

		_, err := svc.AuditTransaction(pending.ID, request.AuditRequest{Action: "approve"})

		if !errors.Is(err, apperrors.ErrInvalidAuditAction) {
			t.Fatalf("Expected ErrInvalidAuditAction, got %v", err)
		}
	})
}

// TestSettlementService_LiquidateFund tests forced fund liquidation.
//
// WHY: Liquidation is the one flow that bypasses the settlement pipeline
// and pays straight to the spendable balance. Every holder must be paid at
// the current NAV and no holding row may survive.
func TestSettlementService_LiquidateFund(t *testing.T) {
	t.Run("pays out every holder at current nav and closes the fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		fund := testutil.NewFund().WithNav(1.25).Build(t, db)
		first := testutil.NewAccount().WithCashBalance(0).Build(t, db)
		second := testutil.NewAccount().WithCashBalance(100).Build(t, db)
		testutil.NewHolding(first.ID, fund.ID).WithShares(1000).WithLatestNav(1.25).Build(t, db)
		testutil.NewHolding(second.ID, fund.ID).WithShares(2000).WithLatestNav(1.25).Build(t, db)

		// Execute
		paidOut, err := svc.LiquidateFund(fund.ID)

		// Assert
		if err != nil {
			t.Fatalf("LiquidateFund() returned unexpected error: %v", err)
		}
		if paidOut != 2 {
			t.Errorf("Expected 2 holders paid out, got %d", paidOut)
		}

		accountRepo := repository.NewAccountRepository(db)
		firstAfter, _ := accountRepo.GetAccount(first.ID)
		if !approxEqual(firstAfter.CashBalance, 1250, 0.001) {
			t.Errorf("Expected first holder balance 1250, got %.2f", firstAfter.CashBalance)
		}
		secondAfter, _ := accountRepo.GetAccount(second.ID)
		if !approxEqual(secondAfter.CashBalance, 2600, 0.001) {
			t.Errorf("Expected second holder balance 2600, got %.2f", secondAfter.CashBalance)
		}

		testutil.AssertRowCount(t, db, "holding", 0)
		testutil.AssertRowCount(t, db, "transaction", 2)

		fundRepo := repository.NewFundRepository(db)
		closed, _ := fundRepo.GetFund(fund.ID)
		if closed.Status != model.FundStatusLiquidating {
			t.Errorf("Expected fund status %d (liquidating), got %d", model.FundStatusLiquidating, closed.Status)
		}
	})

	t.Run("liquidating a fund with no holders still closes it", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		fund := testutil.NewFund().Build(t, db)

		// Execute
		paidOut, err := svc.LiquidateFund(fund.ID)

		// Assert
		if err != nil {
			t.Fatalf("LiquidateFund() returned unexpected error: %v", err)
		}
		if paidOut != 0 {
			t.Errorf("Expected 0 holders paid out, got %d", paidOut)
		}

		fundRepo := repository.NewFundRepository(db)
		closed, _ := fundRepo.GetFund(fund.ID)
		if closed.Status != model.FundStatusLiquidating {
			t.Errorf("Expected fund status %d (liquidating), got %d", model.FundStatusLiquidating, closed.Status)
		}
	})

	t.Run("returns not found for unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettlementService(t, db)

		_, err := svc.LiquidateFund(testutil.MakeID())

		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Fatalf("Expected ErrFundNotFound, got %v", err)
		}
	})
}
