package validation

import (
	"strings"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
)

// ValidateUpdateRisk validates a risk level change request.
func ValidateUpdateRisk(req request.UpdateRiskRequest) error {
	if req.RiskLevel < 1 || req.RiskLevel > 5 {
		return &Error{Fields: map[string]string{"riskLevel": "riskLevel must be between 1 and 5"}}
	}
	return nil
}

// ValidateAdjustHolding validates an administrative holding override.
// The remark is mandatory; every override must be attributable.
func ValidateAdjustHolding(req request.AdjustHoldingRequest) error {
	errors := make(map[string]string)

	if req.Shares < 0 {
		errors["shares"] = "shares cannot be negative"
	}
	if req.AverageCost < 0 {
		errors["averageCost"] = "averageCost cannot be negative"
	}
	if strings.TrimSpace(req.Remark) == "" {
		errors["remark"] = "remark is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
