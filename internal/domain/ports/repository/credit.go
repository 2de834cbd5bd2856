package repository

import (
	"context"

	"imagegen-solana-billing/internal/domain/model"
)

// CreditLedgerRepository is the append-only ledger of credit deltas.
type CreditLedgerRepository interface {
	Append(ctx context.Context, tx Tx, entry *model.CreditLedgerEntry) error
	BalanceByUser(ctx context.Context, tx Tx, userID string) (int64, error)
}
