package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, user_id, product_id, starts_at, ends_at, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET ends_at=$5, status=$6;`
	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.ProductID, s.StartsAt, s.EndsAt, s.Status, s.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) CloseOpenByUser(ctx context.Context, tx repository.Tx, userID string, asOf time.Time) (int, error) {
	const q = `UPDATE subscriptions SET ends_at=$2, status=$3 WHERE user_id=$1 AND status=$4 AND ends_at > $2;`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, asOf, model.SubscriptionStatusExpired, model.SubscriptionStatusActive)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `SELECT id, user_id, product_id, starts_at, ends_at, status, created_at
FROM subscriptions WHERE user_id=$1 AND status='active' AND ends_at > NOW()
ORDER BY ends_at DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	s := &model.Subscription{}
	if err := row.Scan(&s.ID, &s.UserID, &s.ProductID, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *subscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, asOf time.Time) (int, error) {
	const q = `UPDATE subscriptions SET status=$2 WHERE status=$3 AND ends_at <= $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, asOf, model.SubscriptionStatusExpired, model.SubscriptionStatusActive)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}
