package model

import "time"

// Transaction statuses. Confirmed is reachable only from CoolingOff;
// Completed from Settling (or immediately for deposits, dividends and
// liquidations); Rejected from CoolingOff or Settling. Completed and
// Rejected are terminal.
const (
	TradeStatusConfirmed  = 2
	TradeStatusSettling   = 3
	TradeStatusCompleted  = 4
	TradeStatusCoolingOff = 5
	TradeStatusRejected   = 6
)

// Trade types
const (
	TradeTypeSubscribe = 1
	TradeTypeRedeem    = 2
	TradeTypeDeposit   = 3
	TradeTypeDividend  = 4
)

// Transaction represents one economic event in the trade log. Core fields
// are immutable once written; only Status and Remark change afterwards.
// FundCode and FundName are point-in-time snapshots, not live references.
type Transaction struct {
	ID                 string     `json:"id"`
	TradeNo            string     `json:"tradeNo"`
	UserID             string     `json:"userId"`
	FundID             string     `json:"fundId,omitempty"`
	TradeType          int        `json:"tradeType"`
	Amount             float64    `json:"amount"`
	Shares             float64    `json:"shares"`
	Nav                float64    `json:"nav"`
	Fee                float64    `json:"fee"`
	ActualAmount       float64    `json:"actualAmount"`
	Status             int        `json:"status"`
	Remark             string     `json:"remark,omitempty"`
	FundCode           string     `json:"fundCode,omitempty"`
	FundName           string     `json:"fundName,omitempty"`
	Signature          string     `json:"-"`
	ApplyTime          time.Time  `json:"applyTime"`
	CoolingOffDeadline *time.Time `json:"coolingOffDeadline,omitempty"`
	SettleTime         *time.Time `json:"settleTime,omitempty"`
	CreatedAt          time.Time  `json:"createdAt,omitempty"`
}

// IsTerminal reports whether the transaction can no longer transition.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TradeStatusCompleted || t.Status == TradeStatusRejected
}
