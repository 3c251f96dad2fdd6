package postgres

import (
	"errors"
	"time"

	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, user_id, plan_id, plan_name, amount_paise, currency, status, gateway_order_id, payment_session_id, payment_id, failure_reason, created_at, updated_at`

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (
  id, user_id, plan_id, plan_name, amount_paise, currency, status, gateway_order_id, payment_session_id, payment_id, failure_reason, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  status=$7, gateway_order_id=$8, payment_session_id=$9, payment_id=$10, failure_reason=$11, updated_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, o.ID, o.UserID, o.PlanID, o.PlanName, o.AmountPaise, o.Currency, o.Status, o.GatewayOrderID, o.PaymentSessionID, o.PaymentID, o.FailureReason, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.PlanID, &o.PlanName, &o.AmountPaise, &o.Currency, &o.Status, &o.GatewayOrderID, &o.PaymentSessionID, &o.PaymentID, &o.FailureReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus, paymentID, reason string) error {
	const q = `UPDATE orders SET status=$2, payment_id=COALESCE(NULLIF($3,''), payment_id), failure_reason=COALESCE(NULLIF($4,''), failure_reason), updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, status, paymentID, reason)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatusIfPending atomically transitions the order only while it is
// still in created/pending. A false return means someone else already moved
// it out of pending; the caller lost the verify/webhook race. Completion is
// additionally allowed from membership_error so a paid-but-unactivated order
// can be recovered, while a late FAILED event can never demote it.
func (r *orderRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.OrderStatus, paymentID, reason string) (bool, error) {
	q := `
UPDATE orders
   SET status = $2,
       payment_id = COALESCE(NULLIF($3,''), payment_id),
       failure_reason = COALESCE(NULLIF($4,''), failure_reason),
       updated_at = NOW()
 WHERE id = $1
   AND status IN ('created','pending');`
	if status == model.OrderStatusCompleted || status == model.OrderStatusMembershipError {
		q = `
UPDATE orders
   SET status = $2,
       payment_id = COALESCE(NULLIF($3,''), payment_id),
       failure_reason = COALESCE(NULLIF($4,''), failure_reason),
       updated_at = NOW()
 WHERE id = $1
   AND status IN ('created','pending','membership_error');`
	}

	cmd, err := execSQL(ctx, r.pool, tx, q, id, string(status), paymentID, reason)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) SetGatewaySession(ctx context.Context, tx repository.Tx, id, gatewayOrderID, sessionID string) error {
	const q = `UPDATE orders SET gateway_order_id=$2, payment_session_id=$3, status='pending', updated_at=NOW() WHERE id=$1 AND status='created';`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, gatewayOrderID, sessionID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepo) ListUnresolvedOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT ` + orderColumns + ` FROM orders WHERE status IN ('pending','membership_error') AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o := &model.Order{}
		if err := rows.Scan(&o.ID, &o.UserID, &o.PlanID, &o.PlanName, &o.AmountPaise, &o.Currency, &o.Status, &o.GatewayOrderID, &o.PaymentSessionID, &o.PaymentID, &o.FailureReason, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, o)
	}
	return out, nil
}
