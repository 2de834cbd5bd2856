package repository

import (
	"context"

	"imagegen-solana-billing/internal/domain/model"
)

// CatalogRepository reads the SOL-priced catalog. Mutation belongs to admin
// tooling; Save methods exist for seeding and tests.
type CatalogRepository interface {
	FindActiveCreditPackage(ctx context.Context, tx Tx, id string) (*model.CreditPackage, error)
	FindActiveSubscriptionProduct(ctx context.Context, tx Tx, id string) (*model.SubscriptionProduct, error)

	ListCreditPackages(ctx context.Context, tx Tx) ([]*model.CreditPackage, error)
	ListSubscriptionProducts(ctx context.Context, tx Tx) ([]*model.SubscriptionProduct, error)

	SaveCreditPackage(ctx context.Context, tx Tx, pkg *model.CreditPackage) error
	SaveSubscriptionProduct(ctx context.Context, tx Tx, product *model.SubscriptionProduct) error
}
