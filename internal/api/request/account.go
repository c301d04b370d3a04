package request

// UpdateRiskRequest sets an account's risk tolerance level.
type UpdateRiskRequest struct {
	RiskLevel int `json:"riskLevel"`
}

// AdjustHoldingRequest is the administrative override for a holding's
// position fields. Remark is mandatory; it lands in the operation log.
type AdjustHoldingRequest struct {
	Shares      float64 `json:"shares"`
	AverageCost float64 `json:"averageCost"`
	Remark      string  `json:"remark"`
}
