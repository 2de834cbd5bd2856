package model

import "time"

type PaymentKind string

const (
	PaymentKindCreditPurchase       PaymentKind = "credit_purchase"
	PaymentKindSubscriptionPurchase PaymentKind = "subscription_purchase"
)

type PaymentIntentStatus string

const (
	PaymentIntentPending   PaymentIntentStatus = "pending"   // awaiting on-chain verification
	PaymentIntentCompleted PaymentIntentStatus = "completed" // verified and credited
)

// LamportsPerSol is the number of lamports in one SOL.
const LamportsPerSol = 1_000_000_000

// PaymentIntent is the ledger record of a promised, not-yet-verified payment.
// The client receives recipient + exact amount on initiate, transfers on
// chain, then submits the resulting signature for verification.
type PaymentIntent struct {
	ID             string // ULID
	UserID         string // UUID (internal user ID)
	WalletAddress  string // payer wallet, base58
	Kind           PaymentKind
	TargetID       string // credit package or subscription product ID
	AmountLamports uint64
	AmountSol      float64
	PayoutQuantity int64 // credits, or subscription duration in days
	Status         PaymentIntentStatus
	// ChainSignature holds a unique non-base58 placeholder until verification
	// succeeds, then the real transaction signature. The column is unique
	// across all intents, which is what makes signature replay detectable.
	ChainSignature string
	Network        string // mainnet-beta | devnet | testnet
	CreatedAt      time.Time
	VerifiedAt     *time.Time
}

// PlaceholderSignature derives the pre-verification signature value for an
// intent. The ':' separator cannot appear in a base58 string, so a
// placeholder can never collide with a real signature, and deriving it from
// the intent ID keeps concurrent pending intents from colliding with each
// other.
func PlaceholderSignature(intentID string) string {
	return "pending:" + intentID
}

func (p *PaymentIntent) Completed() bool {
	return p.Status == PaymentIntentCompleted
}

// LamportsToSol converts lamports to a SOL amount for display and bookkeeping.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
