package repository

import (
	"context"
	"time"

	"alumni-portal/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.OrderStatus, paymentID, reason string) error

	// UpdateStatusIfPending transitions the order only when its current status
	// is created or pending. Returns false when another caller already moved
	// the order out of pending — the loser of a verify/webhook race.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id string, status model.OrderStatus, paymentID, reason string) (bool, error)

	// SetGatewaySession stores the provider session and moves created -> pending.
	SetGatewaySession(ctx context.Context, tx Tx, id, gatewayOrderID, sessionID string) error

	// ListUnresolvedOlderThan returns stale pending/membership_error orders for
	// the background reconciler.
	ListUnresolvedOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Order, error)
}
