package repository

import (
	"context"
	"time"

	"imagegen-solana-billing/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error

	// CloseOpenByUser ends every still-open subscription for the user at asOf.
	// Returns the number of rows closed.
	CloseOpenByUser(ctx context.Context, tx Tx, userID string, asOf time.Time) (int, error)

	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)

	// ExpireDue flips active subscriptions whose window has ended to expired.
	ExpireDue(ctx context.Context, tx Tx, asOf time.Time) (int, error)
}
