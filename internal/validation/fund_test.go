package validation_test

import (
	"testing"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/validation"
)

// TestValidateCreateFund tests fund creation payload validation.
func TestValidateCreateFund(t *testing.T) {
	t.Run("requires code and name", func(t *testing.T) {
		err := validation.ValidateCreateFund(request.CreateFundRequest{})
		if err == nil {
			t.Fatal("Expected validation error, got nil")
		}
		vErr := err.(*validation.Error)
		if _, ok := vErr.Fields["fundCode"]; !ok {
			t.Errorf("Expected fundCode error, got %v", vErr.Fields)
		}
		if _, ok := vErr.Fields["fundName"]; !ok {
			t.Errorf("Expected fundName error, got %v", vErr.Fields)
		}
	})

	t.Run("rejects negative fee rates", func(t *testing.T) {
		err := validation.ValidateCreateFund(request.CreateFundRequest{
			FundCode:            "F00001",
			FundName:            "Test",
			SubscriptionFeeRate: -0.01,
		})
		if err == nil {
			t.Error("Expected validation error, got nil")
		}
	})

	t.Run("rejects malformed issue date", func(t *testing.T) {
		err := validation.ValidateCreateFund(request.CreateFundRequest{
			FundCode:  "F00001",
			FundName:  "Test",
			IssueDate: "31-08-2026",
		})
		if err == nil {
			t.Error("Expected validation error, got nil")
		}
	})

	t.Run("accepts a minimal valid request", func(t *testing.T) {
		err := validation.ValidateCreateFund(request.CreateFundRequest{
			FundCode: "F00001",
			FundName: "Test Fund",
		})
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

// TestValidateUpdateFund tests the patch-style update validation.
func TestValidateUpdateFund(t *testing.T) {
	t.Run("accepts empty patch", func(t *testing.T) {
		if err := validation.ValidateUpdateFund(request.UpdateFundRequest{}); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects invalid status value", func(t *testing.T) {
		status := 99
		err := validation.ValidateUpdateFund(request.UpdateFundRequest{Status: &status})
		if err == nil {
			t.Error("Expected validation error, got nil")
		}
	})

	t.Run("rejects empty name patch", func(t *testing.T) {
		name := "  "
		err := validation.ValidateUpdateFund(request.UpdateFundRequest{FundName: &name})
		if err == nil {
			t.Error("Expected validation error, got nil")
		}
	})
}

// TestValidateNavBatch tests batch NAV validation.
func TestValidateNavBatch(t *testing.T) {
	t.Run("rejects empty batch", func(t *testing.T) {
		if err := validation.ValidateNavBatch(request.NavBatchRequest{}); err == nil {
			t.Error("Expected validation error, got nil")
		}
	})

	t.Run("one bad point fails the batch", func(t *testing.T) {
		err := validation.ValidateNavBatch(request.NavBatchRequest{
			Records: []request.NavRecordRequest{
				{NavDate: "2026-08-30", Nav: 1.05},
				{NavDate: "2026-08-31", Nav: 0},
			},
		})
		if err == nil {
			t.Error("Expected validation error, got nil")
		}
	})

	t.Run("accepts a clean batch", func(t *testing.T) {
		err := validation.ValidateNavBatch(request.NavBatchRequest{
			Records: []request.NavRecordRequest{
				{NavDate: "2026-08-30", Nav: 1.05},
				{NavDate: "2026-08-31", Nav: 1.08},
			},
		})
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}
