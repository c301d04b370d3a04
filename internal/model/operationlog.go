package model

import "time"

// OperationLog is one append-only audit entry. Every committed mutating
// operation writes exactly one entry in the same transaction.
type OperationLog struct {
	ID          string    `json:"id"`
	Actor       string    `json:"actor"`
	ActionType  string    `json:"actionType"`
	Target      string    `json:"target"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}
