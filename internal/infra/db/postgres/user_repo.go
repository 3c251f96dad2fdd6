package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
	"alumni-portal/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

// Membership is stored as a JSONB document on the user row; the audit trail
// lives in membership_records.
func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	mb, err := marshalMembership(u.Membership)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO users (id, email, password_hash, full_name, phone, membership, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  email=$2, password_hash=$3, full_name=$4, phone=$5, membership=$6, updated_at=$8;`

	_, err = execSQL(ctx, r.pool, tx, q, u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, mb, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, full_name, phone, membership, created_at, updated_at FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, full_name, phone, membership, created_at, updated_at FROM users WHERE email=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) SetMembership(ctx context.Context, tx repository.Tx, userID string, m *model.Membership) error {
	mb, err := marshalMembership(m)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	const q = `UPDATE users SET membership=$2, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, mb)
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

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var mb []byte
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &mb, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if len(mb) > 0 && string(mb) != "null" {
		m := &model.Membership{}
		if err := json.Unmarshal(mb, m); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		u.Membership = m
	}
	return u, nil
}

func marshalMembership(m *model.Membership) ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
