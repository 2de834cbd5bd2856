package model

import "time"

// RevenueEvent is an append-only audit entry derived from amountSol multiplied
// by the oracle USD rate at verification time. Purely informational; nothing
// in the payment pipeline reads it back.
type RevenueEvent struct {
	ID             string // UUID
	UserID         string
	EventType      string // e.g. "sol_credit_purchase", "sol_subscription"
	AmountUsdCents int64
	Description    string
	CreatedAt      time.Time
}
