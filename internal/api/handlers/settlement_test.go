package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/handlers"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/testutil"
)

// TestSettlementHandler_ProcessSettlement tests the sweep endpoint.
func TestSettlementHandler_ProcessSettlement(t *testing.T) {
	t.Run("returns the sweep result", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSettlementHandler(testutil.NewTestSettlementService(t, db))

		account := testutil.NewAccount().Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithCoolingOffDeadline(time.Now().UTC().Add(-time.Hour)).Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/settlement/process", nil)
		rec := httptest.NewRecorder()

		// Execute
		handler.ProcessSettlement(rec, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result["confirmed"] != float64(1) {
			t.Errorf("Expected 1 confirmed, got %v", result["confirmed"])
		}
	})
}

// TestSettlementHandler_AuditTransaction tests the audit endpoint status
// mapping.
func TestSettlementHandler_AuditTransaction(t *testing.T) {
	t.Run("returns 200 with the audited transaction", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSettlementHandler(testutil.NewTestSettlementService(t, db))

		account := testutil.NewAccount().Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		pending := testutil.NewTransaction(account.ID).WithFund(fund.ID).Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/trade/"+pending.ID+"/audit",
			request.AuditRequest{Action: "confirm"},
			map[string]string{"uuid": pending.ID},
		)
		rec := httptest.NewRecorder()

		// Execute
		handler.AuditTransaction(rec, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var audited model.Transaction
		if err := json.NewDecoder(rec.Body).Decode(&audited); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if audited.Status != model.TradeStatusConfirmed {
			t.Errorf("Expected status %d (confirmed), got %d", model.TradeStatusConfirmed, audited.Status)
		}
	})

	t.Run("returns 409 for terminal transaction", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSettlementHandler(testutil.NewTestSettlementService(t, db))

		account := testutil.NewAccount().Build(t, db)
		fund := testutil.NewFund().Build(t, db)
		completed := testutil.NewTransaction(account.ID).WithFund(fund.ID).
			WithStatus(model.TradeStatusCompleted).Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/trade/"+completed.ID+"/audit",
			request.AuditRequest{Action: "reject"},
			map[string]string{"uuid": completed.ID},
		)
		rec := httptest.NewRecorder()

		// Execute
		handler.AuditTransaction(rec, req)

		// Assert
		if rec.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for unknown action", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSettlementHandler(testutil.NewTestSettlementService(t, db))

		id := testutil.MakeID()
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/trade/"+id+"/audit",
			request.AuditRequest{Action: "approve"},
			map[string]string{"uuid": id},
		)
		rec := httptest.NewRecorder()

		// Execute
		handler.AuditTransaction(rec, req)

		// Assert
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for unknown transaction", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSettlementHandler(testutil.NewTestSettlementService(t, db))

		id := testutil.MakeID()
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/trade/"+id+"/audit",
			request.AuditRequest{Action: "confirm"},
			map[string]string{"uuid": id},
		)
		rec := httptest.NewRecorder()

		// Execute
		handler.AuditTransaction(rec, req)

		// Assert
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})
}

// TestSettlementHandler_LiquidateFund tests the liquidation endpoint.
func TestSettlementHandler_LiquidateFund(t *testing.T) {
	t.Run("returns the number of holders paid out", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSettlementHandler(testutil.NewTestSettlementService(t, db))

		fund := testutil.NewFund().Build(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewHolding(account.ID, fund.ID).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodPost,
			"/api/fund/"+fund.ID+"/liquidate", map[string]string{"uuid": fund.ID})
		rec := httptest.NewRecorder()

		// Execute
		handler.LiquidateFund(rec, req)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var body map[string]int
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body["holdersPaidOut"] != 1 {
			t.Errorf("Expected 1 holder paid out, got %d", body["holdersPaidOut"])
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSettlementHandler(testutil.NewTestSettlementService(t, db))

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodPost,
			"/api/fund/"+id+"/liquidate", map[string]string{"uuid": id})
		rec := httptest.NewRecorder()

		// Execute
		handler.LiquidateFund(rec, req)

		// Assert
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})
}
