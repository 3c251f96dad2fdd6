package repository

import (
	"context"

	"alumni-portal/internal/domain/model"
)

// MembershipRecordRepository is the append-only audit trail; one entry per
// successful payment.
type MembershipRecordRepository interface {
	// Insert is idempotent on the record id: re-verifying an already completed
	// order must not produce a second entry.
	Insert(ctx context.Context, tx Tx, rec *model.MembershipRecord) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.MembershipRecord, error)
}
