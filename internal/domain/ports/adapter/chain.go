package adapter

import (
	"context"
	"time"
)

// Commitment selects how settled a transaction must be before the RPC node
// reports it. Confirmed is used for early failure detection; only Finalized
// is trusted for balance deltas (reorganization risk below that level).
type Commitment string

const (
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// SignatureStatus is the lightweight status of a submitted signature.
type SignatureStatus struct {
	Confirmed bool // reached at least confirmed commitment
	Failed    bool // chain reports an execution error
}

// TransactionRecord is the subset of a chain transaction the verification
// pipeline needs: the account list and the balance deltas around execution.
type TransactionRecord struct {
	AccountKeys  []string // base58, same order as the balance arrays
	PreBalances  []uint64 // lamports per account before execution
	PostBalances []uint64 // lamports per account after execution
	Failed       bool
	Slot         uint64
	BlockTime    *time.Time
}

// ChainClient is a read-only wrapper over a Solana JSON-RPC connection.
// Network errors propagate as-is; the caller owns retry cadence.
type ChainClient interface {
	// GetSignatureStatus returns nil when the cluster has not seen the
	// signature yet.
	GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error)

	// GetTransaction returns nil when no record exists at the requested
	// commitment level yet.
	GetTransaction(ctx context.Context, signature string, commitment Commitment) (*TransactionRecord, error)
}
