//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/usecase"
)

func TestAuthUC_SignupAndLogin(t *testing.T) {
	users := NewMockUserRepo()
	auth := usecase.NewAuthUseCase(users, "test-secret", time.Hour)
	ctx := context.Background()

	user, token, err := auth.Signup(ctx, "Asha@Example.com", "s3cret-pass", "Asha", "9876501234")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "asha@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password stored in the clear")
	}
	if token == "" {
		t.Fatal("no token issued")
	}

	uid, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if uid != user.ID {
		t.Errorf("token subject = %q, want %q", uid, user.ID)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := auth.Signup(ctx, "asha@example.com", "another-pass", "Asha", "")
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		_, _, err := auth.Signup(ctx, "new@example.com", "short", "New", "")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("login roundtrip", func(t *testing.T) {
		got, token, err := auth.Login(ctx, "asha@example.com", "s3cret-pass")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("user id = %q, want %q", got.ID, user.ID)
		}
		if _, err := auth.ParseToken(token); err != nil {
			t.Errorf("login token rejected: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "asha@example.com", "wrong-pass")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody@example.com", "whatever-pass")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestAuthUC_ParseToken(t *testing.T) {
	users := NewMockUserRepo()
	auth := usecase.NewAuthUseCase(users, "test-secret", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		if _, err := auth.ParseToken("not.a.jwt"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := usecase.NewAuthUseCase(users, "other-secret", time.Hour)
		_, token, err := auth.Signup(context.Background(), "sig@example.com", "long-enough", "Sig", "")
		if err != nil {
			t.Fatalf("Signup: %v", err)
		}
		if _, err := other.ParseToken(token); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := usecase.NewAuthUseCase(users, "test-secret", -time.Minute)
		_, token, err := shortLived.Signup(context.Background(), "exp@example.com", "long-enough", "Exp", "")
		if err != nil {
			t.Fatalf("Signup: %v", err)
		}
		if _, err := shortLived.ParseToken(token); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}
