//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/adapter"
	"imagegen-solana-billing/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &l
}

// --- Payment intent repository ---

type MockIntentRepo struct {
	mu    sync.Mutex
	store map[string]*model.PaymentIntent

	SaveFunc     func(ctx context.Context, tx repository.Tx, p *model.PaymentIntent) error
	FinalizeFunc func(ctx context.Context, tx repository.Tx, id, signature string, verifiedAt time.Time) (bool, error)
}

func NewMockIntentRepo() *MockIntentRepo {
	return &MockIntentRepo{store: make(map[string]*model.PaymentIntent)}
}

func (m *MockIntentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentIntent) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockIntentRepo) FindByIDAndUser(ctx context.Context, tx repository.Tx, id, userID string) (*model.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockIntentRepo) Finalize(ctx context.Context, tx repository.Tx, id, signature string, verifiedAt time.Time) (bool, error) {
	if m.FinalizeFunc != nil {
		return m.FinalizeFunc(ctx, tx, id, signature, verifiedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status != model.PaymentIntentPending {
		return false, nil
	}
	// Mirror the unique index on chain_signature.
	for _, other := range m.store {
		if other.ID != id && other.ChainSignature == signature {
			return false, domain.ErrReplayDetected
		}
	}
	p.Status = model.PaymentIntentCompleted
	p.ChainSignature = signature
	v := verifiedAt
	p.VerifiedAt = &v
	return true, nil
}

func (m *MockIntentRepo) SignatureConsumed(ctx context.Context, tx repository.Tx, signature, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.ID != excludeID && p.ChainSignature == signature {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockIntentRepo) ListCompletedByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentIntent
	for _, p := range m.store {
		if p.UserID == userID && p.Status == model.PaymentIntentCompleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockIntentRepo) DeletePendingOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, p := range m.store {
		if p.Status == model.PaymentIntentPending && p.CreatedAt.Before(cutoff) {
			delete(m.store, id)
			n++
		}
	}
	return n, nil
}

func (m *MockIntentRepo) get(id string) *model.PaymentIntent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store[id]
}

// --- Catalog repository ---

type MockCatalogRepo struct {
	mu       sync.Mutex
	packages map[string]*model.CreditPackage
	products map[string]*model.SubscriptionProduct
}

func NewMockCatalogRepo() *MockCatalogRepo {
	return &MockCatalogRepo{
		packages: make(map[string]*model.CreditPackage),
		products: make(map[string]*model.SubscriptionProduct),
	}
}

func (m *MockCatalogRepo) FindActiveCreditPackage(ctx context.Context, tx repository.Tx, id string) (*model.CreditPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pkg, ok := m.packages[id]
	if !ok || !pkg.IsActive {
		return nil, domain.ErrNotFound
	}
	cp := *pkg
	return &cp, nil
}

func (m *MockCatalogRepo) FindActiveSubscriptionProduct(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockCatalogRepo) ListCreditPackages(ctx context.Context, tx repository.Tx) ([]*model.CreditPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.CreditPackage
	for _, p := range m.packages {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCatalogRepo) ListSubscriptionProducts(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SubscriptionProduct
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCatalogRepo) SaveCreditPackage(ctx context.Context, tx repository.Tx, pkg *model.CreditPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pkg
	m.packages[pkg.ID] = &cp
	return nil
}

func (m *MockCatalogRepo) SaveSubscriptionProduct(ctx context.Context, tx repository.Tx, p *model.SubscriptionProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

// --- Credit ledger repository ---

type MockCreditRepo struct {
	mu      sync.Mutex
	entries []*model.CreditLedgerEntry

	AppendFunc func(ctx context.Context, tx repository.Tx, e *model.CreditLedgerEntry) error
}

func NewMockCreditRepo() *MockCreditRepo { return &MockCreditRepo{} }

func (m *MockCreditRepo) Append(ctx context.Context, tx repository.Tx, e *model.CreditLedgerEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockCreditRepo) BalanceByUser(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, e := range m.entries {
		if e.UserID == userID {
			sum += e.Amount
		}
	}
	return sum, nil
}

// --- Subscription repository ---

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	subs []*model.Subscription
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo { return &MockSubscriptionRepo{} }

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.subs {
		if existing.ID == s.ID {
			cp := *s
			m.subs[i] = &cp
			return nil
		}
	}
	cp := *s
	m.subs = append(m.subs, &cp)
	return nil
}

func (m *MockSubscriptionRepo) CloseOpenByUser(ctx context.Context, tx repository.Tx, userID string, asOf time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if s.UserID == userID && s.Status == model.SubscriptionStatusActive && s.EndsAt.After(asOf) {
			s.EndsAt = asOf
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID == userID && s.Open(time.Now()) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, asOf time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if s.Status == model.SubscriptionStatusActive && !s.EndsAt.After(asOf) {
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *MockSubscriptionRepo) all() []*model.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Subscription, len(m.subs))
	for i, s := range m.subs {
		cp := *s
		out[i] = &cp
	}
	return out
}

// --- Revenue repository ---

type MockRevenueRepo struct {
	mu     sync.Mutex
	events []*model.RevenueEvent

	AppendFunc func(ctx context.Context, tx repository.Tx, e *model.RevenueEvent) error
}

func NewMockRevenueRepo() *MockRevenueRepo { return &MockRevenueRepo{} }

func (m *MockRevenueRepo) Append(ctx context.Context, tx repository.Tx, e *model.RevenueEvent) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.events = append(m.events, &cp)
	return nil
}

// --- Chain client ---

type MockChainClient struct {
	mu          sync.Mutex
	statusCalls int
	txCalls     int

	StatusFunc func(call int) (*adapter.SignatureStatus, error)
	TxFunc     func(call int, commitment adapter.Commitment) (*adapter.TransactionRecord, error)
}

func (m *MockChainClient) GetSignatureStatus(ctx context.Context, signature string) (*adapter.SignatureStatus, error) {
	m.mu.Lock()
	m.statusCalls++
	n := m.statusCalls
	m.mu.Unlock()
	if m.StatusFunc == nil {
		return nil, nil
	}
	return m.StatusFunc(n)
}

func (m *MockChainClient) GetTransaction(ctx context.Context, signature string, commitment adapter.Commitment) (*adapter.TransactionRecord, error) {
	m.mu.Lock()
	m.txCalls++
	n := m.txCalls
	m.mu.Unlock()
	if m.TxFunc == nil {
		return nil, nil
	}
	return m.TxFunc(n, commitment)
}

func (m *MockChainClient) calls() (status, tx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusCalls, m.txCalls
}

// --- Price oracle ---

type MockOracle struct{ Rate float64 }

func (m *MockOracle) UsdRate(ctx context.Context) float64 { return m.Rate }

// --- Transaction manager ---

type MockTxManager struct{}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}
