package model

import "time"

// CreditPackage is a purchasable bundle of image-generation credits.
// Catalog rows are owned by admin tooling; the payment core only reads
// active, SOL-priced entries at intent-creation time.
type CreditPackage struct {
	ID            string
	Name          string
	PriceLamports uint64
	Credits       int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SubscriptionProduct is a SOL-priced subscription tier. A purchase opens a
// fixed 30-day window; BonusCredits, when non-zero, are granted alongside.
type SubscriptionProduct struct {
	ID            string
	Name          string
	PriceLamports uint64
	BonusCredits  int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
