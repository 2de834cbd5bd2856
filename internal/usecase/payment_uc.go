// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"imagegen-solana-billing/internal/config"
	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/adapter"
	"imagegen-solana-billing/internal/domain/ports/repository"
	"imagegen-solana-billing/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// VerifyResult reports the payout actually applied by a successful
// verification.
type VerifyResult struct {
	Payout    int64
	Kind      model.PaymentKind
	Signature string
}

// SubsystemStatus is what clients see before attempting a payment.
type SubsystemStatus struct {
	Enabled bool   `json:"enabled"`
	Network string `json:"network"`
}

type PaymentUseCase interface {
	// Initiate creates a pending intent and returns recipient + exact amount.
	Initiate(ctx context.Context, userID, targetID, walletAddress string, kind model.PaymentKind) (*model.PaymentIntent, error)
	// Verify polls the chain for the claimed signature and, on success,
	// finalizes the intent and applies the payout exactly once.
	Verify(ctx context.Context, userID, paymentID, signature string) (*VerifyResult, error)
	ListCompleted(ctx context.Context, userID string) ([]*model.PaymentIntent, error)
	Status() SubsystemStatus
	// SweepStale removes pending intents older than the retention window.
	SweepStale(ctx context.Context, retention time.Duration) (int, error)
}

type paymentUC struct {
	intents   repository.PaymentIntentRepository
	catalog   repository.CatalogRepository
	revenue   repository.RevenueRepository
	chain     adapter.ChainClient
	oracle    adapter.PriceOracle
	crediting CreditingUseCase
	tm        repository.TransactionManager
	cfg       config.SolanaConfig
	log       *zerolog.Logger
}

func NewPaymentUseCase(
	intents repository.PaymentIntentRepository,
	catalog repository.CatalogRepository,
	revenue repository.RevenueRepository,
	chain adapter.ChainClient,
	oracle adapter.PriceOracle,
	crediting CreditingUseCase,
	tm repository.TransactionManager,
	cfg config.SolanaConfig,
	logger *zerolog.Logger,
) *paymentUC {
	l := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{
		intents:   intents,
		catalog:   catalog,
		revenue:   revenue,
		chain:     chain,
		oracle:    oracle,
		crediting: crediting,
		tm:        tm,
		cfg:       cfg,
		log:       &l,
	}
}

func (u *paymentUC) enabled() bool { return u.cfg.TreasuryWallet != "" }

func (u *paymentUC) Status() SubsystemStatus {
	return SubsystemStatus{Enabled: u.enabled(), Network: u.cfg.Cluster}
}

func (u *paymentUC) Initiate(ctx context.Context, userID, targetID, walletAddress string, kind model.PaymentKind) (*model.PaymentIntent, error) {
	if !u.enabled() {
		return nil, domain.ErrNotConfigured
	}
	if userID == "" || targetID == "" || walletAddress == "" {
		return nil, domain.ErrInvalidArgument
	}

	var (
		price  uint64
		payout int64
	)
	switch kind {
	case model.PaymentKindCreditPurchase:
		pkg, err := u.catalog.FindActiveCreditPackage(ctx, nil, targetID)
		if err != nil {
			return nil, err
		}
		price, payout = pkg.PriceLamports, pkg.Credits
	case model.PaymentKindSubscriptionPurchase:
		product, err := u.catalog.FindActiveSubscriptionProduct(ctx, nil, targetID)
		if err != nil {
			return nil, err
		}
		price = product.PriceLamports
		payout = int64(model.SubscriptionPeriod / (24 * time.Hour))
	default:
		return nil, domain.ErrInvalidArgument
	}

	id := ulid.Make().String()
	intent := &model.PaymentIntent{
		ID:             id,
		UserID:         userID,
		WalletAddress:  walletAddress,
		Kind:           kind,
		TargetID:       targetID,
		AmountLamports: price,
		AmountSol:      model.LamportsToSol(price),
		PayoutQuantity: payout,
		Status:         model.PaymentIntentPending,
		ChainSignature: model.PlaceholderSignature(id),
		Network:        u.cfg.Cluster,
		CreatedAt:      time.Now(),
	}
	if err := u.intents.Save(ctx, nil, intent); err != nil {
		return nil, err
	}

	metrics.IncPaymentIntent(string(kind))
	u.log.Info().Str("payment_id", id).Str("kind", string(kind)).
		Uint64("lamports", price).Msg("payment intent created")
	return intent, nil
}

func (u *paymentUC) Verify(ctx context.Context, userID, paymentID, signature string) (*VerifyResult, error) {
	if !u.enabled() {
		return nil, domain.ErrNotConfigured
	}
	if userID == "" || paymentID == "" || signature == "" {
		return nil, domain.ErrInvalidArgument
	}

	intent, err := u.intents.FindByIDAndUser(ctx, nil, paymentID, userID)
	if err != nil {
		metrics.IncVerification("not_found")
		return nil, err
	}
	if intent.Completed() {
		metrics.IncVerification("already_processed")
		return nil, domain.ErrAlreadyProcessed
	}

	consumed, err := u.intents.SignatureConsumed(ctx, nil, signature, intent.ID)
	if err != nil {
		return nil, err
	}
	if consumed {
		metrics.IncVerification("replay")
		return nil, domain.ErrReplayDetected
	}

	record, attempts, err := u.awaitFinalized(ctx, signature)
	metrics.ObservePollAttempts(attempts)
	if err != nil {
		metrics.IncVerification(outcomeLabel(err))
		return nil, err
	}
	if record.Failed {
		metrics.IncVerification("on_chain_failure")
		return nil, domain.ErrOnChainFailure
	}

	received, err := u.treasuryDelta(record)
	if err != nil {
		metrics.IncVerification(outcomeLabel(err))
		return nil, err
	}
	if received < int64(intent.AmountLamports)-u.tolerance(intent.AmountLamports) {
		u.log.Warn().Str("payment_id", intent.ID).
			Int64("received", received).Uint64("expected", intent.AmountLamports).
			Msg("underpaid transfer rejected")
		metrics.IncVerification("amount_mismatch")
		return nil, domain.ErrAmountMismatch
	}

	var payout int64
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ok, err := u.intents.Finalize(ctx, tx, intent.ID, signature, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent Verify for the same intent won the race.
			return domain.ErrAlreadyProcessed
		}
		payout, err = u.crediting.Apply(ctx, tx, intent)
		return err
	})
	if err != nil {
		metrics.IncVerification(outcomeLabel(err))
		return nil, err
	}

	u.recordRevenue(ctx, intent)
	metrics.IncVerification("verified")
	u.log.Info().Str("payment_id", intent.ID).Int64("payout", payout).
		Int("attempts", attempts).Msg("payment verified and credited")

	return &VerifyResult{Payout: payout, Kind: intent.Kind, Signature: signature}, nil
}

// awaitFinalized polls the lightweight signature status until the transaction
// is obtainable at finalized commitment, an on-chain error is reported, or the
// attempt ceiling is reached. RPC errors count as attempts; the caller retries
// the whole Verify call, not individual RPC hops.
func (u *paymentUC) awaitFinalized(ctx context.Context, signature string) (*adapter.TransactionRecord, int, error) {
	for attempt := 1; attempt <= u.cfg.PollAttempts; attempt++ {
		status, err := u.chain.GetSignatureStatus(ctx, signature)
		switch {
		case err != nil:
			u.log.Warn().Err(err).Int("attempt", attempt).Msg("signature status poll failed")
		case status != nil && status.Failed:
			// Hard failure on chain: no amount of waiting fixes it.
			return nil, attempt, domain.ErrOnChainFailure
		case status != nil && status.Confirmed:
			record, err := u.chain.GetTransaction(ctx, signature, adapter.CommitmentFinalized)
			if err != nil {
				u.log.Warn().Err(err).Int("attempt", attempt).Msg("transaction fetch failed")
			} else if record != nil {
				return record, attempt, nil
			}
			// Confirmed but not finalized yet; keep polling.
		}

		if attempt == u.cfg.PollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, attempt, domain.ErrNotConfirmed
		case <-time.After(u.cfg.PollInterval):
		}
	}
	return nil, u.cfg.PollAttempts, domain.ErrNotConfirmed
}

// treasuryDelta locates the treasury account in the transaction and returns
// how many lamports it gained.
func (u *paymentUC) treasuryDelta(record *adapter.TransactionRecord) (int64, error) {
	for i, key := range record.AccountKeys {
		if key != u.cfg.TreasuryWallet {
			continue
		}
		if i >= len(record.PreBalances) || i >= len(record.PostBalances) {
			return 0, domain.ErrRecipientMismatch
		}
		return int64(record.PostBalances[i]) - int64(record.PreBalances[i]), nil
	}
	return 0, domain.ErrRecipientMismatch
}

// tolerance is max(amount * bps / 10000, minLamports): absorbs benign
// rounding without accepting real underpayment.
func (u *paymentUC) tolerance(amount uint64) int64 {
	t := int64(amount) * u.cfg.ToleranceBps / 10_000
	if t < u.cfg.ToleranceMinLamports {
		t = u.cfg.ToleranceMinLamports
	}
	return t
}

// recordRevenue books the USD value of a verified payment. Best-effort: an
// oracle or insert failure never unwinds crediting.
func (u *paymentUC) recordRevenue(ctx context.Context, intent *model.PaymentIntent) {
	rate := u.oracle.UsdRate(ctx)
	cents := int64(math.Round(intent.AmountSol * rate * 100))
	event := &model.RevenueEvent{
		ID:             uuid.NewString(),
		UserID:         intent.UserID,
		EventType:      "sol_" + string(intent.Kind),
		AmountUsdCents: cents,
		Description:    fmt.Sprintf("%s of %s for %.4f SOL", intent.Kind, intent.TargetID, intent.AmountSol),
		CreatedAt:      time.Now(),
	}
	if err := u.revenue.Append(ctx, nil, event); err != nil {
		u.log.Warn().Err(err).Str("payment_id", intent.ID).Msg("revenue event not recorded")
		return
	}
	metrics.AddRevenueUsdCents(cents)
}

func (u *paymentUC) ListCompleted(ctx context.Context, userID string) ([]*model.PaymentIntent, error) {
	return u.intents.ListCompletedByUser(ctx, nil, userID, 100)
}

func (u *paymentUC) SweepStale(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)
	n, err := u.intents.DeletePendingOlderThan(ctx, nil, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.IncIntentsSwept(n)
		u.log.Info().Int("count", n).Msg("stale pending intents swept")
	}
	return n, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotConfirmed):
		return "not_confirmed"
	case errors.Is(err, domain.ErrOnChainFailure):
		return "on_chain_failure"
	case errors.Is(err, domain.ErrRecipientMismatch):
		return "recipient_mismatch"
	case errors.Is(err, domain.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, domain.ErrReplayDetected):
		return "replay"
	default:
		return "internal_error"
	}
}
