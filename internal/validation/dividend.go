package validation

import (
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// ValidateDividend validates a fund-wide distribution request.
//
// Required fields:
//   - dividendType: Must be 1 (cash) or 2 (reinvest)
//   - perShare: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateDividend(req request.DividendRequest) error {
	errors := make(map[string]string)

	if req.DividendType != model.DividendTypeCash && req.DividendType != model.DividendTypeReinvest {
		errors["dividendType"] = "dividendType must be 1 (cash) or 2 (reinvest)"
	}
	if req.PerShare <= 0 {
		errors["perShare"] = "perShare must be positive"
	}
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
