package model

import "time"

// Dividend distribution types
const (
	DividendTypeCash     = 1
	DividendTypeReinvest = 2
)

// DividendRecord summarizes one fund-wide distribution event.
// Immutable once created.
type DividendRecord struct {
	ID                  string    `json:"id"`
	DividendNo          string    `json:"dividendNo"`
	FundID              string    `json:"fundId"`
	FundName            string    `json:"fundName"`
	DividendDate        time.Time `json:"dividendDate"`
	DividendType        int       `json:"dividendType"`
	DividendPerShare    float64   `json:"dividendPerShare"`
	TotalAmount         float64   `json:"totalAmount"`
	AffectedHolderCount int       `json:"affectedHolderCount"`
	CreatedAt           time.Time `json:"createdAt,omitempty"`
}
