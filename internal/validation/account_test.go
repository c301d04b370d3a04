package validation_test

import (
	"testing"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/validation"
)

// TestValidateUpdateRisk tests risk level bounds.
func TestValidateUpdateRisk(t *testing.T) {
	t.Run("accepts levels 1 through 5", func(t *testing.T) {
		for level := 1; level <= 5; level++ {
			if err := validation.ValidateUpdateRisk(request.UpdateRiskRequest{RiskLevel: level}); err != nil {
				t.Errorf("Expected level %d accepted, got %v", level, err)
			}
		}
	})

	t.Run("rejects out-of-range levels", func(t *testing.T) {
		for _, level := range []int{0, 6, -1} {
			if err := validation.ValidateUpdateRisk(request.UpdateRiskRequest{RiskLevel: level}); err == nil {
				t.Errorf("Expected level %d rejected", level)
			}
		}
	})
}

// TestValidateAdjustHolding tests the holding override validation.
//
// WHY: The remark is the audit trail for a manual ledger change; an
// override without one must never reach the service layer.
func TestValidateAdjustHolding(t *testing.T) {
	t.Run("requires a remark", func(t *testing.T) {
		err := validation.ValidateAdjustHolding(request.AdjustHoldingRequest{
			Shares:      100,
			AverageCost: 1.0,
		})
		if err == nil {
			t.Error("Expected validation error, got nil")
		}
	})

	t.Run("rejects negative position fields", func(t *testing.T) {
		err := validation.ValidateAdjustHolding(request.AdjustHoldingRequest{
			Shares:      -1,
			AverageCost: -1,
			Remark:      "bad",
		})
		if err == nil {
			t.Fatal("Expected validation error, got nil")
		}
		vErr := err.(*validation.Error)
		if len(vErr.Fields) != 2 {
			t.Errorf("Expected 2 field errors, got %v", vErr.Fields)
		}
	})

	t.Run("accepts zero shares with remark", func(t *testing.T) {
		err := validation.ValidateAdjustHolding(request.AdjustHoldingRequest{
			Shares: 0,
			Remark: "closing position",
		})
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}
