package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
)

var _ repository.CatalogRepository = (*catalogRepo)(nil)

type catalogRepo struct{ pool *pgxpool.Pool }

func NewCatalogRepo(pool *pgxpool.Pool) *catalogRepo {
	return &catalogRepo{pool: pool}
}

func (r *catalogRepo) FindActiveCreditPackage(ctx context.Context, tx repository.Tx, id string) (*model.CreditPackage, error) {
	const q = `SELECT id, name, price_lamports, credits, is_active, created_at, updated_at
FROM credit_packages WHERE id=$1 AND is_active;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	pkg := &model.CreditPackage{}
	if err := row.Scan(&pkg.ID, &pkg.Name, &pkg.PriceLamports, &pkg.Credits, &pkg.IsActive, &pkg.CreatedAt, &pkg.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return pkg, nil
}

func (r *catalogRepo) FindActiveSubscriptionProduct(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionProduct, error) {
	const q = `SELECT id, name, price_lamports, bonus_credits, is_active, created_at, updated_at
FROM subscription_products WHERE id=$1 AND is_active;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	p := &model.SubscriptionProduct{}
	if err := row.Scan(&p.ID, &p.Name, &p.PriceLamports, &p.BonusCredits, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *catalogRepo) ListCreditPackages(ctx context.Context, tx repository.Tx) ([]*model.CreditPackage, error) {
	const q = `SELECT id, name, price_lamports, credits, is_active, created_at, updated_at
FROM credit_packages ORDER BY price_lamports;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CreditPackage
	for rows.Next() {
		pkg := &model.CreditPackage{}
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.PriceLamports, &pkg.Credits, &pkg.IsActive, &pkg.CreatedAt, &pkg.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, pkg)
	}
	return out, rows.Err()
}

func (r *catalogRepo) ListSubscriptionProducts(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionProduct, error) {
	const q = `SELECT id, name, price_lamports, bonus_credits, is_active, created_at, updated_at
FROM subscription_products ORDER BY price_lamports;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SubscriptionProduct
	for rows.Next() {
		p := &model.SubscriptionProduct{}
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceLamports, &p.BonusCredits, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *catalogRepo) SaveCreditPackage(ctx context.Context, tx repository.Tx, pkg *model.CreditPackage) error {
	const q = `
INSERT INTO credit_packages (id, name, price_lamports, credits, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET name=$2, price_lamports=$3, credits=$4, is_active=$5, updated_at=NOW();`
	_, err := execSQL(ctx, r.pool, tx, q, pkg.ID, pkg.Name, pkg.PriceLamports, pkg.Credits, pkg.IsActive, pkg.CreatedAt, pkg.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *catalogRepo) SaveSubscriptionProduct(ctx context.Context, tx repository.Tx, product *model.SubscriptionProduct) error {
	const q = `
INSERT INTO subscription_products (id, name, price_lamports, bonus_credits, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET name=$2, price_lamports=$3, bonus_credits=$4, is_active=$5, updated_at=NOW();`
	_, err := execSQL(ctx, r.pool, tx, q, product.ID, product.Name, product.PriceLamports, product.BonusCredits, product.IsActive, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
