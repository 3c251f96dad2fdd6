package model

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"alumni-portal/internal/domain"
)

type OrderStatus string

const (
	OrderStatusCreated         OrderStatus = "created"         // persisted, no gateway session yet
	OrderStatusPending         OrderStatus = "pending"         // gateway session obtained; awaiting payment
	OrderStatusCompleted       OrderStatus = "completed"       // payment verified, membership active
	OrderStatusFailed          OrderStatus = "failed"          // payment failed or amount mismatch
	OrderStatusUserDropped     OrderStatus = "user_dropped"    // user abandoned the checkout
	OrderStatusMembershipError OrderStatus = "membership_error" // paid, but activation writes did not commit
)

// IsTerminal reports whether no further transition is allowed. membership_error
// is deliberately non-terminal: the reconciler retries activation for it.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusUserDropped:
		return true
	}
	return false
}

// Order records one membership-purchase attempt. PlanID is stored as an
// explicit field at creation time and is never reconstructed from the order id.
type Order struct {
	ID               string
	UserID           string
	PlanID           string
	PlanName         string
	AmountPaise      int64 // derived from the catalog, never from the client
	Currency         string
	Status           OrderStatus
	GatewayOrderID   string // order id assigned by the gateway (cf_order_id)
	PaymentSessionID string // hosted-checkout session token
	PaymentID        string // gateway payment id, set on verified success
	FailureReason    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewOrderID builds a gateway-safe order identifier. A ULID suffix replaces
// the wall-clock millisecond suffix so concurrent requests for the same
// user+plan cannot collide.
func NewOrderID(userID, planID string, now time.Time) string {
	uid := userID
	if len(uid) > 8 {
		uid = uid[:8]
	}
	suffix := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	return fmt.Sprintf("order_%s_%s_%s", uid, planID, suffix.String())
}

// NewOrder validates inputs and constructs an order in the created state with
// the amount taken from the plan catalog.
func NewOrder(userID string, plan *MembershipPlan, now time.Time) (*Order, error) {
	if userID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	return &Order{
		ID:          NewOrderID(userID, plan.ID, now),
		UserID:      userID,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		AmountPaise: plan.PricePaise,
		Currency:    "INR",
		Status:      OrderStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
