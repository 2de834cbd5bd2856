package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrAlreadyExists     = errors.New("entity already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotConfigured     = errors.New("solana payments are not configured")
	ErrAlreadyProcessed  = errors.New("payment already processed")
	ErrReplayDetected    = errors.New("transaction signature already redeemed")
	ErrNotConfirmed      = errors.New("transaction not confirmed yet")
	ErrOnChainFailure    = errors.New("transaction failed on chain")
	ErrRecipientMismatch = errors.New("treasury wallet not found in transaction")
	ErrAmountMismatch    = errors.New("transferred amount below expected price")

	// Infrastructure errors
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid transaction context")
	ErrChainUnavailable   = errors.New("solana rpc unavailable")
)

// Retryable reports whether the client may safely resubmit the same
// verification request. Terminal errors leave the intent pending until swept.
func Retryable(err error) bool {
	return errors.Is(err, ErrNotConfirmed) ||
		errors.Is(err, ErrChainUnavailable) ||
		errors.Is(err, ErrOperationFailed)
}
