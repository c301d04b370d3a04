package request

// SubscribeRequest is the payload for buying into a fund. Amount is the
// gross amount debited from the account; the subscription fee is extracted
// from it, not added on top.
type SubscribeRequest struct {
	UserID    string  `json:"userId"`
	FundID    string  `json:"fundId"`
	Amount    float64 `json:"amount"`
	Signature string  `json:"signature"`
}

// RedeemRequest is the payload for selling fund shares.
type RedeemRequest struct {
	UserID string  `json:"userId"`
	FundID string  `json:"fundId"`
	Shares float64 `json:"shares"`
}

// DepositRequest is the payload for crediting settled cash.
type DepositRequest struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

// AuditRequest is the administrative confirm/reject decision for one
// pending transaction.
type AuditRequest struct {
	Action string `json:"action"` // "confirm" or "reject"
	Remark string `json:"remark,omitempty"`
}
