package model

import "time"

// HoldingEpsilon is the share count below which a holding is considered
// empty and removed from the ledger.
const HoldingEpsilon = 1e-4

// Holding represents a position in a fund, keyed by (UserID, FundID).
// AverageCost is the weighted-average price basis per share; TotalAsset and
// ProfitAmount are derived from shares and the latest NAV and kept in sync
// by the valuation cascade.
type Holding struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	FundID       string    `json:"fundId"`
	Shares       float64   `json:"shares"`
	AverageCost  float64   `json:"averageCost"`
	LatestNav    float64   `json:"latestNav"`
	TotalAsset   float64   `json:"totalAsset"`
	ProfitAmount float64   `json:"profitAmount"`
	ProfitRate   float64   `json:"profitRate"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// HoldingResponse is a holding enriched with fund metadata for API
// responses.
type HoldingResponse struct {
	Holding
	FundCode string `json:"fundCode"`
	FundName string `json:"fundName"`
}
