package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"alumni-portal/internal/domain"
)

// User is a portal account. Membership is embedded; a nil Membership or one
// with status "none" means the user has never purchased.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Membership   *Membership
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(email, passwordHash, fullName, phone string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Phone:        phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
