//go:build !integration

package web_test

import (
	"context"
	"sync"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/usecase"
)

// ---- Mock AuthUseCase ----

// mockAuthUC accepts any token of the form "token-<userID>".
type mockAuthUC struct {
	SignupFunc func(ctx context.Context, email, password, fullName, phone string) (*model.User, string, error)
	LoginFunc  func(ctx context.Context, email, password string) (*model.User, string, error)
}

var _ usecase.AuthUseCase = (*mockAuthUC)(nil)

func (m *mockAuthUC) Signup(ctx context.Context, email, password, fullName, phone string) (*model.User, string, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, password, fullName, phone)
	}
	return &model.User{ID: "u1", Email: email}, "token-u1", nil
}

func (m *mockAuthUC) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &model.User{ID: "u1", Email: email}, "token-u1", nil
}

func (m *mockAuthUC) ParseToken(token string) (string, error) {
	if len(token) > 6 && token[:6] == "token-" {
		return token[6:], nil
	}
	return "", domain.ErrInvalidCredentials
}

// ---- Mock PlanUseCase ----

type mockPlanUC struct{}

var _ usecase.PlanUseCase = (*mockPlanUC)(nil)

func (mockPlanUC) List(ctx context.Context) []*model.MembershipPlan {
	return model.DefaultCatalog().List()
}

func (mockPlanUC) Find(ctx context.Context, id string) (*model.MembershipPlan, error) {
	p, ok := model.DefaultCatalog().Find(id)
	if !ok {
		return nil, domain.ErrUnknownPlan
	}
	return p, nil
}

// ---- Mock OrderUseCase ----

type mockOrderUC struct {
	InitiateFunc func(ctx context.Context, userID, planID, email, phone string, clientAmountPaise *int64) (*model.Order, error)
	GetFunc      func(ctx context.Context, orderID string) (*model.Order, error)
}

var _ usecase.OrderUseCase = (*mockOrderUC)(nil)

func (m *mockOrderUC) Initiate(ctx context.Context, userID, planID, email, phone string, clientAmountPaise *int64) (*model.Order, error) {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, userID, planID, email, phone, clientAmountPaise)
	}
	return nil, domain.ErrOperationFailed
}

func (m *mockOrderUC) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, orderID)
	}
	return nil, domain.ErrNotFound
}

// ---- Mock ReconcileUseCase ----

type mockReconcileUC struct {
	mu sync.Mutex

	ReconcileFunc  func(ctx context.Context, orderID string) (*usecase.ReconcileResult, error)
	MarkFailedFunc func(ctx context.Context, orderID string, status model.OrderStatus, paymentID, reason string) error

	Calls struct {
		Reconcile  []string
		MarkFailed []model.OrderStatus
	}
}

var _ usecase.ReconcileUseCase = (*mockReconcileUC)(nil)

func (m *mockReconcileUC) Reconcile(ctx context.Context, orderID string) (*usecase.ReconcileResult, error) {
	m.mu.Lock()
	m.Calls.Reconcile = append(m.Calls.Reconcile, orderID)
	m.mu.Unlock()
	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx, orderID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReconcileUC) MarkFailed(ctx context.Context, orderID string, status model.OrderStatus, paymentID, reason string) error {
	m.mu.Lock()
	m.Calls.MarkFailed = append(m.Calls.MarkFailed, status)
	m.mu.Unlock()
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, orderID, status, paymentID, reason)
	}
	return nil
}

func (m *mockReconcileUC) ReconcileCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls.Reconcile)
}

// ---- Mock MembershipUseCase ----

type mockMemberUC struct {
	GetFunc     func(ctx context.Context, userID string) (*model.Membership, bool, error)
	HistoryFunc func(ctx context.Context, userID string) ([]*model.MembershipRecord, error)
}

var _ usecase.MembershipUseCase = (*mockMemberUC)(nil)

func (m *mockMemberUC) Get(ctx context.Context, userID string) (*model.Membership, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return nil, false, nil
}

func (m *mockMemberUC) History(ctx context.Context, userID string) ([]*model.MembershipRecord, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID)
	}
	return nil, nil
}
