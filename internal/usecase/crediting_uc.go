// File: internal/usecase/crediting_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ CreditingUseCase = (*creditingUC)(nil)

// CreditingUseCase mutates account state exactly once per verified payment.
// Apply is only ever called after the intent's conditional finalize succeeded,
// inside the same transaction, so a payout can never be applied twice.
type CreditingUseCase interface {
	// Apply dispatches on the intent kind and returns the payout granted
	// (credits for a credit purchase, duration days for a subscription).
	Apply(ctx context.Context, tx repository.Tx, intent *model.PaymentIntent) (int64, error)
	// Balance sums the user's credit ledger.
	Balance(ctx context.Context, userID string) (int64, error)
}

type creditingUC struct {
	credits repository.CreditLedgerRepository
	subs    repository.SubscriptionRepository
	catalog repository.CatalogRepository
	log     *zerolog.Logger
}

func NewCreditingUseCase(
	credits repository.CreditLedgerRepository,
	subs repository.SubscriptionRepository,
	catalog repository.CatalogRepository,
	logger *zerolog.Logger,
) *creditingUC {
	l := logger.With().Str("component", "CreditingUC").Logger()
	return &creditingUC{credits: credits, subs: subs, catalog: catalog, log: &l}
}

func (u *creditingUC) Apply(ctx context.Context, tx repository.Tx, intent *model.PaymentIntent) (int64, error) {
	switch intent.Kind {
	case model.PaymentKindCreditPurchase:
		return u.applyCreditPurchase(ctx, tx, intent)
	case model.PaymentKindSubscriptionPurchase:
		return u.applySubscriptionPurchase(ctx, tx, intent)
	default:
		return 0, domain.ErrInvalidArgument
	}
}

func (u *creditingUC) applyCreditPurchase(ctx context.Context, tx repository.Tx, intent *model.PaymentIntent) (int64, error) {
	entry := &model.CreditLedgerEntry{
		ID:        uuid.NewString(),
		UserID:    intent.UserID,
		Amount:    intent.PayoutQuantity,
		Reason:    fmt.Sprintf("sol_credit_purchase:%s", intent.ID),
		CreatedAt: time.Now(),
	}
	if err := u.credits.Append(ctx, tx, entry); err != nil {
		return 0, err
	}
	u.log.Info().Str("user_id", intent.UserID).Int64("credits", entry.Amount).Msg("credits granted")
	return intent.PayoutQuantity, nil
}

func (u *creditingUC) applySubscriptionPurchase(ctx context.Context, tx repository.Tx, intent *model.PaymentIntent) (int64, error) {
	now := time.Now()

	// Subscriptions are non-overlapping per user: end any open window first.
	closed, err := u.subs.CloseOpenByUser(ctx, tx, intent.UserID, now)
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		u.log.Info().Str("user_id", intent.UserID).Int("closed", closed).Msg("previous subscriptions closed")
	}

	sub := &model.Subscription{
		ID:        uuid.NewString(),
		UserID:    intent.UserID,
		ProductID: intent.TargetID,
		StartsAt:  now,
		EndsAt:    now.Add(model.SubscriptionPeriod),
		Status:    model.SubscriptionStatusActive,
		CreatedAt: now,
	}
	if err := u.subs.Save(ctx, tx, sub); err != nil {
		return 0, err
	}

	// Bonus credits ride along as a separate ledger entry when the product
	// defines them.
	product, err := u.catalog.FindActiveSubscriptionProduct(ctx, tx, intent.TargetID)
	if err == nil && product != nil && product.BonusCredits > 0 {
		entry := &model.CreditLedgerEntry{
			ID:        uuid.NewString(),
			UserID:    intent.UserID,
			Amount:    product.BonusCredits,
			Reason:    fmt.Sprintf("sol_subscription_bonus:%s", intent.ID),
			CreatedAt: now,
		}
		if err := u.credits.Append(ctx, tx, entry); err != nil {
			return 0, err
		}
	}

	u.log.Info().Str("user_id", intent.UserID).Time("ends_at", sub.EndsAt).Msg("subscription opened")
	return intent.PayoutQuantity, nil
}

func (u *creditingUC) Balance(ctx context.Context, userID string) (int64, error) {
	return u.credits.BalanceByUser(ctx, nil, userID)
}
