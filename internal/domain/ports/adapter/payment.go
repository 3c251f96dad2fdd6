package adapter

import (
	"context"
	"time"
)

// Attempt statuses as reported by the provider.
const (
	AttemptStatusSuccess     = "SUCCESS"
	AttemptStatusFailed      = "FAILED"
	AttemptStatusPending     = "PENDING"
	AttemptStatusUserDropped = "USER_DROPPED"
)

// GatewaySession is the provider's response to order creation: the provider's
// own order id plus the opaque token the hosted checkout runs against.
type GatewaySession struct {
	GatewayOrderID   string
	PaymentSessionID string
}

// CreateOrderParams carries everything the provider needs to open a checkout.
type CreateOrderParams struct {
	OrderID       string
	AmountPaise   int64
	Currency      string
	CustomerID    string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
	NotifyURL     string
}

// PaymentAttempt is one payment try against an order, as reported by the
// provider's authoritative payments listing.
type PaymentAttempt struct {
	PaymentID   string
	Status      string
	AmountPaise int64
	Method      string
	Message     string
	PaymentTime time.Time
}

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() string

	// CreateOrder registers the order with the provider and returns the
	// hosted-checkout session. Never retried: a failed attempt is abandoned
	// and a fresh order id is used instead.
	CreateOrder(ctx context.Context, p CreateOrderParams) (GatewaySession, error)

	// FetchPayments returns every payment attempt recorded against the order,
	// straight from the provider. Safe to retry (GET).
	FetchPayments(ctx context.Context, orderID string) ([]PaymentAttempt, error)
}
