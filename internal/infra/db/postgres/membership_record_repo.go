package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/repository"
)

var _ repository.MembershipRecordRepository = (*membershipRecordRepo)(nil)

type membershipRecordRepo struct{ pool *pgxpool.Pool }

func NewMembershipRecordRepo(pool *pgxpool.Pool) *membershipRecordRepo {
	return &membershipRecordRepo{pool: pool}
}

// Insert is a no-op when the record id already exists, which makes repeated
// verification of the same order produce exactly one audit entry.
func (r *membershipRecordRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.MembershipRecord) error {
	const q = `
INSERT INTO membership_records (
  id, user_id, order_id, payment_id, plan_id, plan_name, amount_paise, status, start_date, expiry_date, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO NOTHING;`

	_, err := execSQL(ctx, r.pool, tx, q, rec.ID, rec.UserID, rec.OrderID, rec.PaymentID, rec.PlanID, rec.PlanName, rec.AmountPaise, rec.Status, rec.StartDate, rec.ExpiryDate, rec.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *membershipRecordRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.MembershipRecord, error) {
	const q = `SELECT id, user_id, order_id, payment_id, plan_id, plan_name, amount_paise, status, start_date, expiry_date, created_at FROM membership_records WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.MembershipRecord
	for rows.Next() {
		rec := &model.MembershipRecord{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.OrderID, &rec.PaymentID, &rec.PlanID, &rec.PlanName, &rec.AmountPaise, &rec.Status, &rec.StartDate, &rec.ExpiryDate, &rec.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, rec)
	}
	return out, nil
}
