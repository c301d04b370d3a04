package service_test

import (
	"errors"
	"testing"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/testutil"
)

// TestFundService_CreateFund tests fund issuance.
//
// WHY: A new fund's live NAV must start at its initial NAV, and the
// lifecycle must default to raising so funds cannot trade before launch.
func TestFundService_CreateFund(t *testing.T) {
	t.Run("creates fund with defaults applied", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		// Execute
		fund, err := svc.CreateFund(request.CreateFundRequest{
			FundCode: testutil.MakeFundCode(),
			FundName: testutil.MakeFundName("Growth"),
			FundType: 1,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateFund() returned unexpected error: %v", err)
		}
		if fund.NavInitial != 1.0 {
			t.Errorf("Expected initial nav defaulted to 1.0, got %.4f", fund.NavInitial)
		}
		if fund.NavCurrent != 1.0 {
			t.Errorf("Expected live nav seeded from initial nav, got %.4f", fund.NavCurrent)
		}
		if fund.Status != model.FundStatusRaising {
			t.Errorf("Expected status %d (raising), got %d", model.FundStatusRaising, fund.Status)
		}
		testutil.AssertRowCount(t, db, "fund", 1)
		testutil.AssertRowCount(t, db, "operation_log", 1)
	})

	t.Run("honors explicit initial nav and status", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		// Execute
		fund, err := svc.CreateFund(request.CreateFundRequest{
			FundCode:   testutil.MakeFundCode(),
			FundName:   testutil.MakeFundName("Value"),
			NavInitial: 2.5,
			Status:     model.FundStatusActive,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateFund() returned unexpected error: %v", err)
		}
		if fund.NavCurrent != 2.5 {
			t.Errorf("Expected live nav 2.5, got %.4f", fund.NavCurrent)
		}
		if fund.Status != model.FundStatusActive {
			t.Errorf("Expected status %d (active), got %d", model.FundStatusActive, fund.Status)
		}
	})
}

// TestFundService_UpdateFund tests the patch-style fund update.
//
// WHY: Only fields present in the request may change; a patch that names
// one field must not zero out the others.
func TestFundService_UpdateFund(t *testing.T) {
	t.Run("patches only the provided fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		fund := testutil.NewFund().WithSubscriptionFeeRate(0.0015).Build(t, db)
		newName := "Renamed Fund"

		// Execute
		updated, err := svc.UpdateFund(fund.ID, request.UpdateFundRequest{
			FundName: &newName,
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateFund() returned unexpected error: %v", err)
		}
		if updated.FundName != newName {
			t.Errorf("Expected name %q, got %q", newName, updated.FundName)
		}
		if updated.SubscriptionFeeRate != 0.0015 {
			t.Errorf("Expected fee rate untouched at 0.0015, got %.4f", updated.SubscriptionFeeRate)
		}
		if updated.FundCode != fund.FundCode {
			t.Errorf("Expected fund code untouched, got %q", updated.FundCode)
		}
	})

	t.Run("can suspend a fund via status patch", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		fund := testutil.NewFund().Build(t, db)
		suspended := model.FundStatusSuspended

		// Execute
		updated, err := svc.UpdateFund(fund.ID, request.UpdateFundRequest{
			Status: &suspended,
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateFund() returned unexpected error: %v", err)
		}
		if updated.Status != model.FundStatusSuspended {
			t.Errorf("Expected status %d (suspended), got %d", model.FundStatusSuspended, updated.Status)
		}
	})

	t.Run("returns not found for unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		_, err := svc.UpdateFund(testutil.MakeID(), request.UpdateFundRequest{})

		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Fatalf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

// TestFundService_ListFunds tests fund listing.
func TestFundService_ListFunds(t *testing.T) {
	t.Run("returns all funds", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		testutil.NewFund().Build(t, db)
		testutil.NewFund().Build(t, db)

		// Execute
		funds, err := svc.ListFunds()

		// Assert
		if err != nil {
			t.Fatalf("ListFunds() returned unexpected error: %v", err)
		}
		if len(funds) != 2 {
			t.Errorf("Expected 2 funds, got %d", len(funds))
		}
	})

	t.Run("returns empty list on fresh database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		funds, err := svc.ListFunds()

		if err != nil {
			t.Fatalf("ListFunds() returned unexpected error: %v", err)
		}
		if len(funds) != 0 {
			t.Errorf("Expected empty list, got %d funds", len(funds))
		}
	})
}
