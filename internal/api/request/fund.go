package request

// CreateFundRequest is the payload for issuing a new fund product.
type CreateFundRequest struct {
	FundCode            string  `json:"fundCode"`
	FundName            string  `json:"fundName"`
	FundType            int     `json:"fundType"`
	RiskLevel           int     `json:"riskLevel"`
	NavInitial          float64 `json:"navInitial"`
	SubscriptionFeeRate float64 `json:"subscriptionFeeRate"`
	RedemptionFeeRate   float64 `json:"redemptionFeeRate"`
	ManagementFeeRate   float64 `json:"managementFeeRate"`
	LockupPeriodDays    int     `json:"lockupPeriodDays"`
	SettlementCycleDays int     `json:"settlementCycleDays"`
	Status              int     `json:"status"`
	Manager             string  `json:"manager"`
	Strategy            string  `json:"strategy"`
	IssueDate           string  `json:"issueDate"`
}

// UpdateFundRequest is the payload for changing fund product parameters.
// All fields are optional; NAV fields are owned by the valuation path and
// cannot be patched here.
type UpdateFundRequest struct {
	FundName            *string  `json:"fundName,omitempty"`
	FundType            *int     `json:"fundType,omitempty"`
	RiskLevel           *int     `json:"riskLevel,omitempty"`
	NavInitial          *float64 `json:"navInitial,omitempty"`
	SubscriptionFeeRate *float64 `json:"subscriptionFeeRate,omitempty"`
	RedemptionFeeRate   *float64 `json:"redemptionFeeRate,omitempty"`
	ManagementFeeRate   *float64 `json:"managementFeeRate,omitempty"`
	LockupPeriodDays    *int     `json:"lockupPeriodDays,omitempty"`
	SettlementCycleDays *int     `json:"settlementCycleDays,omitempty"`
	Status              *int     `json:"status,omitempty"`
	Manager             *string  `json:"manager,omitempty"`
	Strategy            *string  `json:"strategy,omitempty"`
}

// NavRecordRequest is one NAV point for ingestion.
type NavRecordRequest struct {
	NavDate         string  `json:"navDate"` // YYYY-MM-DD
	Nav             float64 `json:"nav"`
	NavAccumulated  float64 `json:"navAccumulated"`
	DailyReturnRate float64 `json:"dailyReturnRate"`
}

// NavBatchRequest is a batch of NAV points merged into history in one
// operation.
type NavBatchRequest struct {
	Records []NavRecordRequest `json:"records"`
}

// DividendRequest is the payload for a fund-wide distribution.
type DividendRequest struct {
	DividendType int     `json:"dividendType"` // 1=cash, 2=reinvest
	PerShare     float64 `json:"perShare"`
	Date         string  `json:"date"` // YYYY-MM-DD
}
