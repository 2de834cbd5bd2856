package model

import "time"

// CreditLedgerEntry is one signed delta in the append-only credit ledger.
// A user's balance is the sum of their entries; corrections and refunds are
// new negative entries, never destructive updates.
type CreditLedgerEntry struct {
	ID        string // UUID
	UserID    string
	Amount    int64 // positive grant or negative correction
	Reason    string
	CreatedAt time.Time
}
