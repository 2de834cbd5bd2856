//go:build !integration

// File: internal/usecase/crediting_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
	"imagegen-solana-billing/internal/usecase"
)

type creditingFixture struct {
	credits *MockCreditRepo
	subs    *MockSubscriptionRepo
	catalog *MockCatalogRepo
	uc      usecase.CreditingUseCase
}

func newCreditingFixture(t *testing.T) *creditingFixture {
	t.Helper()
	f := &creditingFixture{
		credits: NewMockCreditRepo(),
		subs:    NewMockSubscriptionRepo(),
		catalog: NewMockCatalogRepo(),
	}
	f.uc = usecase.NewCreditingUseCase(f.credits, f.subs, f.catalog, newTestLogger())
	return f
}

func creditIntent(userID string, credits int64) *model.PaymentIntent {
	return &model.PaymentIntent{
		ID:             "01J5FAKEINTENT0000000000TC",
		UserID:         userID,
		Kind:           model.PaymentKindCreditPurchase,
		TargetID:       "p1",
		PayoutQuantity: credits,
	}
}

func TestCreditingUC_ApplyCreditPurchase(t *testing.T) {
	f := newCreditingFixture(t)
	ctx := context.Background()

	payout, err := f.uc.Apply(ctx, nil, creditIntent("user-1", 250))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if payout != 250 {
		t.Errorf("payout = %d, want 250", payout)
	}

	if len(f.credits.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(f.credits.entries))
	}
	entry := f.credits.entries[0]
	if entry.Amount != 250 {
		t.Errorf("entry amount = %d, want 250", entry.Amount)
	}
	if !strings.HasPrefix(entry.Reason, "sol_credit_purchase:") {
		t.Errorf("entry reason = %q, want sol_credit_purchase prefix", entry.Reason)
	}
	if !strings.HasSuffix(entry.Reason, "01J5FAKEINTENT0000000000TC") {
		t.Errorf("entry reason = %q, want intent ID suffix", entry.Reason)
	}
}

func TestCreditingUC_ApplySubscriptionPurchase(t *testing.T) {
	f := newCreditingFixture(t)
	ctx := context.Background()
	f.catalog.SaveSubscriptionProduct(ctx, nil, &model.SubscriptionProduct{
		ID: "ultra-monthly", PriceLamports: 2_000_000_000, BonusCredits: 0, IsActive: true,
	})

	intent := &model.PaymentIntent{
		ID:             "01J5FAKEINTENT0000000001TC",
		UserID:         "user-1",
		Kind:           model.PaymentKindSubscriptionPurchase,
		TargetID:       "ultra-monthly",
		PayoutQuantity: 30,
	}
	payout, err := f.uc.Apply(ctx, nil, intent)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if payout != 30 {
		t.Errorf("payout = %d, want 30", payout)
	}

	sub, err := f.subs.FindActiveByUser(ctx, nil, "user-1")
	if err != nil {
		t.Fatalf("FindActiveByUser: %v", err)
	}
	if sub.ProductID != "ultra-monthly" {
		t.Errorf("product = %q, want ultra-monthly", sub.ProductID)
	}
	if got := sub.EndsAt.Sub(sub.StartsAt); got != model.SubscriptionPeriod {
		t.Errorf("window = %v, want %v", got, model.SubscriptionPeriod)
	}
	if len(f.credits.entries) != 0 {
		t.Errorf("ledger entries = %d, want 0 for a zero-bonus product", len(f.credits.entries))
	}
}

func TestCreditingUC_ApplySubscriptionBonusCredits(t *testing.T) {
	f := newCreditingFixture(t)
	ctx := context.Background()
	f.catalog.SaveSubscriptionProduct(ctx, nil, &model.SubscriptionProduct{
		ID: "pro-monthly", PriceLamports: 500_000_000, BonusCredits: 120, IsActive: true,
	})

	intent := &model.PaymentIntent{
		ID:             "01J5FAKEINTENT0000000002TC",
		UserID:         "user-1",
		Kind:           model.PaymentKindSubscriptionPurchase,
		TargetID:       "pro-monthly",
		PayoutQuantity: 30,
	}
	if _, err := f.uc.Apply(ctx, nil, intent); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if bal, _ := f.uc.Balance(ctx, "user-1"); bal != 120 {
		t.Errorf("balance = %d, want 120 bonus credits", bal)
	}
	if len(f.credits.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(f.credits.entries))
	}
	if !strings.HasPrefix(f.credits.entries[0].Reason, "sol_subscription_bonus:") {
		t.Errorf("entry reason = %q, want sol_subscription_bonus prefix", f.credits.entries[0].Reason)
	}
}

func TestCreditingUC_SubscriptionsDoNotOverlap(t *testing.T) {
	f := newCreditingFixture(t)
	ctx := context.Background()
	f.catalog.SaveSubscriptionProduct(ctx, nil, &model.SubscriptionProduct{
		ID: "pro-monthly", PriceLamports: 500_000_000, IsActive: true,
	})

	f.subs.Save(ctx, nil, &model.Subscription{
		ID:       "sub-old",
		UserID:   "user-1",
		StartsAt: time.Now().Add(-5 * 24 * time.Hour),
		EndsAt:   time.Now().Add(25 * 24 * time.Hour),
		Status:   model.SubscriptionStatusActive,
	})

	intent := &model.PaymentIntent{
		ID:             "01J5FAKEINTENT0000000003TC",
		UserID:         "user-1",
		Kind:           model.PaymentKindSubscriptionPurchase,
		TargetID:       "pro-monthly",
		PayoutQuantity: 30,
	}
	if _, err := f.uc.Apply(ctx, nil, intent); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	now := time.Now()
	open := 0
	for _, s := range f.subs.all() {
		if s.Open(now) {
			open++
		}
	}
	if open != 1 {
		t.Errorf("open subscriptions = %d, want exactly 1", open)
	}
}

func TestCreditingUC_ApplyUnknownKind(t *testing.T) {
	f := newCreditingFixture(t)
	intent := &model.PaymentIntent{ID: "x", UserID: "user-1", Kind: model.PaymentKind("tip")}
	if _, err := f.uc.Apply(context.Background(), nil, intent); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Apply err = %v, want ErrInvalidArgument", err)
	}
}

func TestCreditingUC_LedgerWriteFailurePropagates(t *testing.T) {
	f := newCreditingFixture(t)
	f.credits.AppendFunc = func(ctx context.Context, tx repository.Tx, e *model.CreditLedgerEntry) error {
		return domain.ErrOperationFailed
	}
	if _, err := f.uc.Apply(context.Background(), nil, creditIntent("user-1", 10)); !errors.Is(err, domain.ErrOperationFailed) {
		t.Fatalf("Apply err = %v, want ErrOperationFailed", err)
	}
}

func TestCreditingUC_BalanceSumsOnlyOwnEntries(t *testing.T) {
	f := newCreditingFixture(t)
	ctx := context.Background()

	f.credits.Append(ctx, nil, &model.CreditLedgerEntry{ID: "e1", UserID: "user-1", Amount: 100})
	f.credits.Append(ctx, nil, &model.CreditLedgerEntry{ID: "e2", UserID: "user-1", Amount: -30})
	f.credits.Append(ctx, nil, &model.CreditLedgerEntry{ID: "e3", UserID: "user-2", Amount: 999})

	if bal, _ := f.uc.Balance(ctx, "user-1"); bal != 70 {
		t.Errorf("user-1 balance = %d, want 70", bal)
	}
	if bal, _ := f.uc.Balance(ctx, "user-2"); bal != 999 {
		t.Errorf("user-2 balance = %d, want 999", bal)
	}
}
