package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
	"imagegen-solana-billing/internal/infra/metrics"
	red "imagegen-solana-billing/internal/infra/redis"
)

var _ repository.CatalogRepository = (*catalogRepoCacheDecorator)(nil)

// catalogRepoCacheDecorator is a read-through cache over the catalog.
// Catalog rows change rarely (admin edits) but are read on every initiate.
type catalogRepoCacheDecorator struct {
	inner repository.CatalogRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCatalogRepoCacheDecorator(inner repository.CatalogRepository, cache red.RedisClient) repository.CatalogRepository {
	return &catalogRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func (d *catalogRepoCacheDecorator) FindActiveCreditPackage(ctx context.Context, tx repository.Tx, id string) (*model.CreditPackage, error) {
	key := fmt.Sprintf("credit_package:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("credit_package", "hit")
		var pkg model.CreditPackage
		if json.Unmarshal([]byte(val), &pkg) == nil {
			return &pkg, nil
		}
	}

	metrics.IncCacheRequest("credit_package", "miss")
	pkg, err := d.inner.FindActiveCreditPackage(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(pkg); err == nil {
		d.cache.Set(ctx, key, b, d.ttl)
	}
	return pkg, nil
}

func (d *catalogRepoCacheDecorator) FindActiveSubscriptionProduct(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionProduct, error) {
	key := fmt.Sprintf("subscription_product:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("subscription_product", "hit")
		var p model.SubscriptionProduct
		if json.Unmarshal([]byte(val), &p) == nil {
			return &p, nil
		}
	}

	metrics.IncCacheRequest("subscription_product", "miss")
	p, err := d.inner.FindActiveSubscriptionProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(p); err == nil {
		d.cache.Set(ctx, key, b, d.ttl)
	}
	return p, nil
}

func (d *catalogRepoCacheDecorator) ListCreditPackages(ctx context.Context, tx repository.Tx) ([]*model.CreditPackage, error) {
	return d.inner.ListCreditPackages(ctx, tx)
}

func (d *catalogRepoCacheDecorator) ListSubscriptionProducts(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionProduct, error) {
	return d.inner.ListSubscriptionProducts(ctx, tx)
}

// Writes invalidate the cached entry.
func (d *catalogRepoCacheDecorator) SaveCreditPackage(ctx context.Context, tx repository.Tx, pkg *model.CreditPackage) error {
	d.cache.Del(ctx, fmt.Sprintf("credit_package:%s", pkg.ID))
	return d.inner.SaveCreditPackage(ctx, tx, pkg)
}

func (d *catalogRepoCacheDecorator) SaveSubscriptionProduct(ctx context.Context, tx repository.Tx, product *model.SubscriptionProduct) error {
	d.cache.Del(ctx, fmt.Sprintf("subscription_product:%s", product.ID))
	return d.inner.SaveSubscriptionProduct(ctx, tx, product)
}
