package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// SubscriptionPeriod is the fixed entitlement window opened by a SOL-paid
// subscription purchase.
const SubscriptionPeriod = 30 * 24 * time.Hour

// Subscription is one entitlement window. Subscriptions are non-overlapping
// per user: a new purchase closes any prior open window before opening its
// own.
type Subscription struct {
	ID        string // UUID
	UserID    string
	ProductID string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    SubscriptionStatus
	CreatedAt time.Time
}

// Open reports whether the subscription window is still running at t.
func (s *Subscription) Open(t time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndsAt.After(t)
}
