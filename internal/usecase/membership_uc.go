package usecase

import (
	"context"
	"time"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/repository"
)

var _ MembershipUseCase = (*membershipUC)(nil)

type MembershipUseCase interface {
	// Get returns the embedded membership plus whether it grants access right
	// now. Expiry is evaluated here, at read time; nothing ever revokes.
	Get(ctx context.Context, userID string) (*model.Membership, bool, error)
	History(ctx context.Context, userID string) ([]*model.MembershipRecord, error)
}

type membershipUC struct {
	users   repository.UserRepository
	records repository.MembershipRecordRepository
}

func NewMembershipUseCase(users repository.UserRepository, records repository.MembershipRecordRepository) *membershipUC {
	return &membershipUC{users: users, records: records}
}

func (u *membershipUC) Get(ctx context.Context, userID string) (*model.Membership, bool, error) {
	if userID == "" {
		return nil, false, domain.ErrInvalidArgument
	}
	user, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, false, err
	}
	return user.Membership, user.Membership.ActiveAt(time.Now()), nil
}

func (u *membershipUC) History(ctx context.Context, userID string) ([]*model.MembershipRecord, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.records.ListByUser(ctx, nil, userID)
}
