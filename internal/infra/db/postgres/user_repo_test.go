//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
)

func TestUserRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewUserRepo(testPool)
	ctx := context.Background()

	t.Run("should save and read back a user", func(t *testing.T) {
		cleanup(t)
		u, err := model.NewUser("alum@example.com", "hash", "Alum", "9876543210")
		if err != nil {
			t.Fatalf("model.NewUser() failed: %v", err)
		}
		if err := repo.Save(ctx, nil, u); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		byID, err := repo.FindByID(ctx, nil, u.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if byID.Email != "alum@example.com" {
			t.Errorf("Email = %q", byID.Email)
		}
		if byID.Membership != nil {
			t.Errorf("fresh user carries a membership: %+v", byID.Membership)
		}

		byEmail, err := repo.FindByEmail(ctx, nil, "alum@example.com")
		if err != nil {
			t.Fatalf("FindByEmail failed: %v", err)
		}
		if byEmail.ID != u.ID {
			t.Errorf("ID = %q, want %q", byEmail.ID, u.ID)
		}
	})

	t.Run("duplicate email maps to ErrAlreadyExists", func(t *testing.T) {
		cleanup(t)
		u1, _ := model.NewUser("dup@example.com", "hash", "One", "")
		if err := repo.Save(ctx, nil, u1); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		u2, _ := model.NewUser("dup@example.com", "hash", "Two", "")
		if err := repo.Save(ctx, nil, u2); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("membership roundtrips through the jsonb column", func(t *testing.T) {
		cleanup(t)
		u, _ := model.NewUser("member@example.com", "hash", "Member", "")
		if err := repo.Save(ctx, nil, u); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		now := time.Now().UTC().Truncate(time.Second)
		mem := &model.Membership{
			Status: model.MembershipStatusActive, PlanID: "lifetime", PlanName: "Lifetime Membership",
			StartDate: now, ExpiryDate: now.AddDate(100, 0, 0),
			AmountPaise: 2000_00, PaymentID: "pay-9", OrderID: "order_x",
		}
		if err := repo.SetMembership(ctx, nil, u.ID, mem); err != nil {
			t.Fatalf("SetMembership failed: %v", err)
		}

		found, err := repo.FindByID(ctx, nil, u.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found.Membership == nil {
			t.Fatal("membership not persisted")
		}
		if found.Membership.PlanID != "lifetime" || found.Membership.AmountPaise != 2000_00 {
			t.Errorf("membership = %+v", found.Membership)
		}
		if !found.Membership.StartDate.Equal(now) {
			t.Errorf("StartDate = %v, want %v", found.Membership.StartDate, now)
		}
		if !found.Membership.ActiveAt(time.Now()) {
			t.Error("membership not active after write")
		}
	})

	t.Run("SetMembership on a missing user maps to ErrNotFound", func(t *testing.T) {
		cleanup(t)
		mem := &model.Membership{Status: model.MembershipStatusActive}
		if err := repo.SetMembership(ctx, nil, "ghost", mem); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}
