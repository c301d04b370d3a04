package model

import "time"

// Fund lifecycle statuses
const (
	FundStatusRaising     = 1
	FundStatusActive      = 2
	FundStatusLiquidating = 3
	FundStatusSuspended   = 4
)

// Fund represents a fund product. NavCurrent, NavAccumulated and
// DailyReturnRate track the record with the latest nav_date in the fund's
// NAV history; NavInitial is the subscription fallback before any NAV
// record exists.
type Fund struct {
	ID                  string    `json:"id"`
	FundCode            string    `json:"fundCode"`
	FundName            string    `json:"fundName"`
	FundType            int       `json:"fundType"`
	RiskLevel           int       `json:"riskLevel"`
	NavCurrent          float64   `json:"navCurrent"`
	NavAccumulated      float64   `json:"navAccumulated"`
	DailyReturnRate     float64   `json:"dailyReturnRate"`
	NavInitial          float64   `json:"navInitial"`
	SubscriptionFeeRate float64   `json:"subscriptionFeeRate"`
	RedemptionFeeRate   float64   `json:"redemptionFeeRate"`
	ManagementFeeRate   float64   `json:"managementFeeRate"`
	LockupPeriodDays    int       `json:"lockupPeriodDays"`
	SettlementCycleDays int       `json:"settlementCycleDays"`
	Status              int       `json:"status"`
	Manager             string    `json:"manager,omitempty"`
	Strategy            string    `json:"strategy,omitempty"`
	IssueDate           time.Time `json:"issueDate,omitempty"`
	CreatedAt           time.Time `json:"createdAt,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt,omitempty"`
}
