//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/adapter"
	"alumni-portal/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Repositories
// =============================

// ---- Mock OrderRepository ----

type MockOrderRepo struct {
	mu    sync.Mutex
	store map[string]*model.Order

	SaveFunc                  func(ctx context.Context, tx repository.Tx, o *model.Order) error
	UpdateStatusIfPendingFunc func(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus, paymentID, reason string) (bool, error)
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{store: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus, paymentID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	if paymentID != "" {
		o.PaymentID = paymentID
	}
	if reason != "" {
		o.FailureReason = reason
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (m *MockOrderRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus, paymentID, reason string) (bool, error) {
	if m.UpdateStatusIfPendingFunc != nil {
		return m.UpdateStatusIfPendingFunc(ctx, tx, id, status, paymentID, reason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return false, nil
	}
	allowed := o.Status == model.OrderStatusCreated || o.Status == model.OrderStatusPending
	if status == model.OrderStatusCompleted || status == model.OrderStatusMembershipError {
		allowed = allowed || o.Status == model.OrderStatusMembershipError
	}
	if !allowed {
		return false, nil
	}
	o.Status = status
	if paymentID != "" {
		o.PaymentID = paymentID
	}
	if reason != "" {
		o.FailureReason = reason
	}
	o.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockOrderRepo) SetGatewaySession(ctx context.Context, tx repository.Tx, id, gatewayOrderID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok || o.Status != model.OrderStatusCreated {
		return domain.ErrNotFound
	}
	o.GatewayOrderID = gatewayOrderID
	o.PaymentSessionID = sessionID
	o.Status = model.OrderStatusPending
	o.UpdatedAt = time.Now()
	return nil
}

func (m *MockOrderRepo) ListUnresolvedOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.store {
		unresolved := o.Status == model.OrderStatusPending || o.Status == model.OrderStatusMembershipError
		if unresolved && o.CreatedAt.Before(olderThan) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User

	SetMembershipFunc func(ctx context.Context, tx repository.Tx, userID string, mem *model.Membership) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) SetMembership(ctx context.Context, tx repository.Tx, userID string, mem *model.Membership) error {
	if m.SetMembershipFunc != nil {
		return m.SetMembershipFunc(ctx, tx, userID, mem)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *mem
	u.Membership = &cp
	u.UpdatedAt = time.Now()
	return nil
}

// ---- Mock MembershipRecordRepository ----

type MockRecordRepo struct {
	mu    sync.Mutex
	store map[string]*model.MembershipRecord

	InsertFunc func(ctx context.Context, tx repository.Tx, rec *model.MembershipRecord) error
}

var _ repository.MembershipRecordRepository = (*MockRecordRepo)(nil)

func NewMockRecordRepo() *MockRecordRepo {
	return &MockRecordRepo{store: make(map[string]*model.MembershipRecord)}
}

func (m *MockRecordRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.MembershipRecord) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[rec.ID]; exists {
		return nil // idempotent, like ON CONFLICT DO NOTHING
	}
	cp := *rec
	m.store[rec.ID] = &cp
	return nil
}

func (m *MockRecordRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.MembershipRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MembershipRecord
	for _, rec := range m.store {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockRecordRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu sync.Mutex

	CreateOrderFunc   func(ctx context.Context, p adapter.CreateOrderParams) (adapter.GatewaySession, error)
	FetchPaymentsFunc func(ctx context.Context, orderID string) ([]adapter.PaymentAttempt, error)

	Calls struct {
		CreateOrder   []adapter.CreateOrderParams
		FetchPayments []string
	}
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, p adapter.CreateOrderParams) (adapter.GatewaySession, error) {
	m.mu.Lock()
	m.Calls.CreateOrder = append(m.Calls.CreateOrder, p)
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, p)
	}
	return adapter.GatewaySession{GatewayOrderID: "cf-1", PaymentSessionID: "session-1"}, nil
}

func (m *MockPaymentGateway) FetchPayments(ctx context.Context, orderID string) ([]adapter.PaymentAttempt, error) {
	m.mu.Lock()
	m.Calls.FetchPayments = append(m.Calls.FetchPayments, orderID)
	m.mu.Unlock()
	if m.FetchPaymentsFunc != nil {
		return m.FetchPaymentsFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockPaymentGateway) CreateOrderCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls.CreateOrder)
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs the callback immediately without a real transaction by default;
// repositories accept a nil tx. Assign WithTxFunc to simulate transaction
// failures. The in-memory repositories cannot roll back, so a failure
// simulation must return the error without invoking fn.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}
