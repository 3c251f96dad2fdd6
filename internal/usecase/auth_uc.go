package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/repository"
)

var _ AuthUseCase = (*authUC)(nil)

// AuthUseCase covers portal account creation and login. Tokens are HS256 JWTs
// carrying the user id as subject.
type AuthUseCase interface {
	Signup(ctx context.Context, email, password, fullName, phone string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (userID string, err error)
}

type authUC struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthUseCase(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *authUC {
	return &authUC{users: users, secret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

func (u *authUC) Signup(ctx context.Context, email, password, fullName, phone string) (*model.User, string, error) {
	if len(password) < 8 {
		return nil, "", domain.ErrInvalidArgument
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user, err := model.NewUser(email, string(hash), fullName, phone)
	if err != nil {
		return nil, "", err
	}
	if _, err := u.users.FindByEmail(ctx, nil, user.Email); err == nil {
		return nil, "", domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	if err := u.users.Save(ctx, nil, user); err != nil {
		return nil, "", err
	}
	token, err := u.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *authUC) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := u.users.FindByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := u.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *authUC) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
}

func (u *authUC) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidCredentials
		}
		return u.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrInvalidCredentials
	}
	return claims.Subject, nil
}
