package model

import "time"

// Account user types
const (
	UserTypeAdmin    = 1
	UserTypeInvestor = 2
)

// Account statuses
const (
	AccountStatusNormal = 1
	AccountStatusFrozen = 2
	AccountStatusClosed = 3
)

// Account represents a user's cash ledger.
// CashBalance is settled, spendable money; UnsettledCash holds redemption
// proceeds that have not been swept to the balance yet. Both are >= 0.
type Account struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	RealName            string    `json:"realName"`
	UserType            int       `json:"userType"`
	VirtualAccount      string    `json:"virtualAccount"`
	CashBalance         float64   `json:"cashBalance"`
	UnsettledCash       float64   `json:"unsettledCash"`
	RiskLevel           int       `json:"riskLevel"`
	Status              int       `json:"status"`
	IsQualifiedInvestor bool      `json:"isQualifiedInvestor"`
	CreatedAt           time.Time `json:"createdAt,omitempty"`
}
