package validation

import (
	"strings"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// ValidateCreateFund validates a fund creation request.
//
// Required fields:
//   - fundCode: Must be non-empty
//   - fundName: Must be non-empty
//
// Fee rates must be non-negative; the initial NAV must be positive when
// provided; issueDate must be YYYY-MM-DD when provided.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateFund(req request.CreateFundRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.FundCode) == "" {
		errors["fundCode"] = "fundCode is required"
	}
	if strings.TrimSpace(req.FundName) == "" {
		errors["fundName"] = "fundName is required"
	}
	if req.NavInitial < 0 {
		errors["navInitial"] = "navInitial must be positive"
	}
	if req.SubscriptionFeeRate < 0 {
		errors["subscriptionFeeRate"] = "subscriptionFeeRate cannot be negative"
	}
	if req.RedemptionFeeRate < 0 {
		errors["redemptionFeeRate"] = "redemptionFeeRate cannot be negative"
	}
	if req.ManagementFeeRate < 0 {
		errors["managementFeeRate"] = "managementFeeRate cannot be negative"
	}
	if req.LockupPeriodDays < 0 {
		errors["lockupPeriodDays"] = "lockupPeriodDays cannot be negative"
	}
	if req.SettlementCycleDays < 0 {
		errors["settlementCycleDays"] = "settlementCycleDays cannot be negative"
	}
	if req.IssueDate != "" {
		if _, err := time.Parse("2006-01-02", req.IssueDate); err != nil {
			errors["issueDate"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateFund validates a fund update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateFund(req request.UpdateFundRequest) error {
	errors := make(map[string]string)

	if req.FundName != nil && strings.TrimSpace(*req.FundName) == "" {
		errors["fundName"] = "fundName cannot be empty"
	}
	if req.NavInitial != nil && *req.NavInitial <= 0 {
		errors["navInitial"] = "navInitial must be positive"
	}
	if req.SubscriptionFeeRate != nil && *req.SubscriptionFeeRate < 0 {
		errors["subscriptionFeeRate"] = "subscriptionFeeRate cannot be negative"
	}
	if req.RedemptionFeeRate != nil && *req.RedemptionFeeRate < 0 {
		errors["redemptionFeeRate"] = "redemptionFeeRate cannot be negative"
	}
	if req.ManagementFeeRate != nil && *req.ManagementFeeRate < 0 {
		errors["managementFeeRate"] = "managementFeeRate cannot be negative"
	}
	if req.LockupPeriodDays != nil && *req.LockupPeriodDays < 0 {
		errors["lockupPeriodDays"] = "lockupPeriodDays cannot be negative"
	}
	if req.SettlementCycleDays != nil && *req.SettlementCycleDays < 0 {
		errors["settlementCycleDays"] = "settlementCycleDays cannot be negative"
	}
	if req.Status != nil {
		switch *req.Status {
		case model.FundStatusRaising, model.FundStatusActive, model.FundStatusLiquidating, model.FundStatusSuspended:
		default:
			errors["status"] = "invalid fund status"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateNavRecord validates a single NAV ingestion point.
func ValidateNavRecord(req request.NavRecordRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.NavDate) == "" {
		errors["navDate"] = "navDate is required"
	} else if _, err := time.Parse("2006-01-02", req.NavDate); err != nil {
		errors["navDate"] = err.Error()
	}
	if req.Nav <= 0 {
		errors["nav"] = "nav must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateNavBatch validates a batch NAV ingestion request. A single bad
// point fails the whole batch.
func ValidateNavBatch(req request.NavBatchRequest) error {
	if len(req.Records) == 0 {
		return &Error{Fields: map[string]string{"records": "records cannot be empty"}}
	}
	for _, record := range req.Records {
		if err := ValidateNavRecord(record); err != nil {
			return err
		}
	}
	return nil
}
