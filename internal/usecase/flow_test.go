//go:build !integration

package usecase_test

import (
	"context"
	"testing"
	"time"

	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/adapter"
	"alumni-portal/internal/usecase"
)

// TestPurchaseFlow walks the whole happy path with shared stores: signup,
// order initiation, payment at the provider, verification, membership read.
func TestPurchaseFlow(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepo()
	users := NewMockUserRepo()
	records := NewMockRecordRepo()
	gw := &MockPaymentGateway{}
	catalog := model.DefaultCatalog()

	auth := usecase.NewAuthUseCase(users, "flow-secret", time.Hour)
	orderUC := usecase.NewOrderUseCase(orders, users, catalog, gw, "https://portal/return", "https://portal/webhook", newTestLogger())
	reconcileUC := usecase.NewReconcileUseCase(orders, users, records, catalog, gw, NewMockTxManager(), nil, 0, newTestLogger())
	memberUC := usecase.NewMembershipUseCase(users, records)

	user, _, err := auth.Signup(ctx, "flow@example.com", "long-enough", "Flow", "9876543210")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	order, err := orderUC.Initiate(ctx, user.ID, "annual", "", "", nil)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if order.Status != model.OrderStatusPending || order.PaymentSessionID == "" {
		t.Fatalf("order after initiate = %+v", order)
	}

	// member pays on the hosted checkout
	gw.FetchPaymentsFunc = func(ctx context.Context, orderID string) ([]adapter.PaymentAttempt, error) {
		if orderID != order.ID {
			t.Errorf("fetch for %q, want %q", orderID, order.ID)
		}
		return []adapter.PaymentAttempt{{
			PaymentID:   "pay-flow",
			Status:      adapter.AttemptStatusSuccess,
			AmountPaise: order.AmountPaise,
			Method:      "upi",
			PaymentTime: time.Now(),
		}}, nil
	}

	res, err := reconcileUC.Reconcile(ctx, order.ID)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !res.Activated || res.Membership == nil {
		t.Fatalf("reconcile result = %+v", res)
	}

	mem, active, err := memberUC.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("membership Get: %v", err)
	}
	if mem == nil || !active {
		t.Fatalf("membership = %+v active = %v", mem, active)
	}
	if mem.PlanID != "annual" || mem.PaymentID != "pay-flow" || mem.OrderID != order.ID {
		t.Errorf("membership = %+v", mem)
	}

	history, err := memberUC.History(ctx, user.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history))
	}
	if history[0].ID != user.ID+"_"+order.ID {
		t.Errorf("audit id = %q", history[0].ID)
	}
}
