package repository

import (
	"context"
	"time"

	"imagegen-solana-billing/internal/domain/model"
)

// PaymentIntentRepository owns the payment ledger and its uniqueness and
// idempotency invariants.
type PaymentIntentRepository interface {
	Save(ctx context.Context, tx Tx, intent *model.PaymentIntent) error

	// FindByIDAndUser scopes the lookup by owning user; an intent is never
	// retrievable through another user's ID.
	FindByIDAndUser(ctx context.Context, tx Tx, id, userID string) (*model.PaymentIntent, error)

	// Finalize conditionally transitions the intent pending -> completed,
	// overwriting the placeholder signature with the real one and stamping
	// verifiedAt. Returns false when the intent was not pending anymore;
	// this is the single atomic commit point of the verification pipeline.
	Finalize(ctx context.Context, tx Tx, id, signature string, verifiedAt time.Time) (bool, error)

	// SignatureConsumed reports whether the signature is already attached to
	// any intent other than excludeID, across both purchase kinds.
	SignatureConsumed(ctx context.Context, tx Tx, signature, excludeID string) (bool, error)

	ListCompletedByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.PaymentIntent, error)

	// DeletePendingOlderThan removes abandoned pending intents. The chain
	// remains the source of truth; a swept intent simply can no longer be
	// completed through this flow.
	DeletePendingOlderThan(ctx context.Context, tx Tx, cutoff time.Time) (int, error)
}
