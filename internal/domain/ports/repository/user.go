package repository

import (
	"context"

	"alumni-portal/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)

	// SetMembership overwrites the membership embedded in the user row.
	SetMembership(ctx context.Context, tx Tx, userID string, m *model.Membership) error
}
