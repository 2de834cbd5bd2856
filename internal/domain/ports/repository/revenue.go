package repository

import (
	"context"

	"imagegen-solana-billing/internal/domain/model"
)

// RevenueRepository records the informational revenue trail. Writes are
// best-effort; nothing correctness-critical reads these rows.
type RevenueRepository interface {
	Append(ctx context.Context, tx Tx, event *model.RevenueEvent) error
}
