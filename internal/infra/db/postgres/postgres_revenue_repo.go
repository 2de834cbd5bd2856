package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
)

var _ repository.RevenueRepository = (*revenueRepo)(nil)

type revenueRepo struct{ pool *pgxpool.Pool }

func NewRevenueRepo(pool *pgxpool.Pool) *revenueRepo {
	return &revenueRepo{pool: pool}
}

func (r *revenueRepo) Append(ctx context.Context, tx repository.Tx, e *model.RevenueEvent) error {
	const q = `INSERT INTO revenue_events (id, user_id, event_type, amount_usd_cents, description, created_at)
VALUES ($1,$2,$3,$4,$5,$6);`
	_, err := execSQL(ctx, r.pool, tx, q, e.ID, e.UserID, e.EventType, e.AmountUsdCents, e.Description, e.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
