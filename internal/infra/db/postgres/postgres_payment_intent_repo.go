package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
)

var _ repository.PaymentIntentRepository = (*paymentIntentRepo)(nil)

const intentColumns = `id, user_id, wallet_address, kind, target_id, amount_lamports, amount_sol, payout_quantity, status, chain_signature, network, created_at, verified_at`

type paymentIntentRepo struct{ pool *pgxpool.Pool }

func NewPaymentIntentRepo(pool *pgxpool.Pool) *paymentIntentRepo {
	return &paymentIntentRepo{pool: pool}
}

func (r *paymentIntentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentIntent) error {
	const q = `
INSERT INTO payment_intents (` + intentColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  status=$9, chain_signature=$10, verified_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.UserID, p.WalletAddress, p.Kind, p.TargetID, p.AmountLamports, p.AmountSol,
		p.PayoutQuantity, p.Status, p.ChainSignature, p.Network, p.CreatedAt, p.VerifiedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentIntentRepo) FindByIDAndUser(ctx context.Context, tx repository.Tx, id, userID string) (*model.PaymentIntent, error) {
	const q = `SELECT ` + intentColumns + ` FROM payment_intents WHERE id=$1 AND user_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		return nil, err
	}
	return scanIntent(row)
}

// Finalize is the single atomic commit point: the status guard in the WHERE
// clause makes concurrent verifications race safely, and the unique index on
// chain_signature rejects a signature already attached to another intent.
func (r *paymentIntentRepo) Finalize(ctx context.Context, tx repository.Tx, id, signature string, verifiedAt time.Time) (bool, error) {
	const q = `UPDATE payment_intents SET status=$2, chain_signature=$3, verified_at=$4 WHERE id=$1 AND status=$5;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, model.PaymentIntentCompleted, signature, verifiedAt, model.PaymentIntentPending)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, domain.ErrReplayDetected
		}
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() == 1, nil
}

func (r *paymentIntentRepo) SignatureConsumed(ctx context.Context, tx repository.Tx, signature, excludeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM payment_intents WHERE chain_signature=$1 AND id <> $2);`
	row, err := pickRow(ctx, r.pool, tx, q, signature, excludeID)
	if err != nil {
		return false, err
	}
	var consumed bool
	if err := row.Scan(&consumed); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return consumed, nil
}

func (r *paymentIntentRepo) ListCompletedByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.PaymentIntent, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + intentColumns + ` FROM payment_intents WHERE user_id=$1 AND status='completed' ORDER BY verified_at DESC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PaymentIntent
	for rows.Next() {
		p, err := scanIntent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentIntentRepo) DeletePendingOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	const q = `DELETE FROM payment_intents WHERE status='pending' AND created_at < $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, cutoff)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func scanIntent(row pgx.Row) (*model.PaymentIntent, error) {
	p := &model.PaymentIntent{}
	err := row.Scan(&p.ID, &p.UserID, &p.WalletAddress, &p.Kind, &p.TargetID, &p.AmountLamports,
		&p.AmountSol, &p.PayoutQuantity, &p.Status, &p.ChainSignature, &p.Network, &p.CreatedAt, &p.VerifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}
