package validation

import (
	"fmt"
	"strings"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
)

// ValidAuditAction contains the allowed audit decision values.
var ValidAuditAction = map[string]bool{
	"confirm": true, "reject": true,
}

// ValidateSubscribe validates a subscription request.
//
// Required fields:
//   - userId: Must be a valid UUID
//   - fundId: Must be a valid UUID
//   - amount: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateSubscribe(req request.SubscribeRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.UserID); err != nil {
		errors["userId"] = err.Error()
	}
	if err := ValidateUUID(req.FundID); err != nil {
		errors["fundId"] = err.Error()
	}
	if req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateRedeem validates a redemption request.
//
// Required fields:
//   - userId: Must be a valid UUID
//   - fundId: Must be a valid UUID
//   - shares: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRedeem(req request.RedeemRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.UserID); err != nil {
		errors["userId"] = err.Error()
	}
	if err := ValidateUUID(req.FundID); err != nil {
		errors["fundId"] = err.Error()
	}
	if req.Shares <= 0.0 {
		errors["shares"] = "shares must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateDeposit validates a cash deposit request.
func ValidateDeposit(req request.DepositRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.UserID); err != nil {
		errors["userId"] = err.Error()
	}
	if req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateAudit validates an administrative audit decision.
func ValidateAudit(req request.AuditRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Action) == "" {
		errors["action"] = "action is required"
	} else if !ValidAuditAction[req.Action] {
		errors["action"] = fmt.Sprintf("invalid action: %s", req.Action)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
