package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
)

var _ repository.CreditLedgerRepository = (*creditLedgerRepo)(nil)

type creditLedgerRepo struct{ pool *pgxpool.Pool }

func NewCreditLedgerRepo(pool *pgxpool.Pool) *creditLedgerRepo {
	return &creditLedgerRepo{pool: pool}
}

func (r *creditLedgerRepo) Append(ctx context.Context, tx repository.Tx, e *model.CreditLedgerEntry) error {
	const q = `INSERT INTO credit_ledger (id, user_id, amount, reason, created_at) VALUES ($1,$2,$3,$4,$5);`
	_, err := execSQL(ctx, r.pool, tx, q, e.ID, e.UserID, e.Amount, e.Reason, e.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *creditLedgerRepo) BalanceByUser(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM credit_ledger WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := row.Scan(&balance); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return balance, nil
}
