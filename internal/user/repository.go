package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"umkm-store-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User, verificationTokenHash string) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByVerificationToken(ctx context.Context, tokenHash string) (*User, error)
	MarkVerified(ctx context.Context, id uint) error
	SetResetToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error
	FindByResetToken(ctx context.Context, tokenHash string) (*User, time.Time, error)
	ResetPassword(ctx context.Context, id uint, tokenHash, passwordHash string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create inserts u as unverified and fills in the generated columns.
func (r *repository) Create(ctx context.Context, u *User, verificationTokenHash string) error {
	log := logger.FromCtx(ctx)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, phone, status, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, role, status, created_at
	`, u.Name, u.Email, u.Password, u.Phone, StatusUnverified, verificationTokenHash).
		Scan(&u.ID, &u.Role, &u.Status, &u.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return ErrEmailExists
		}
		log.Error("db: failed to insert user",
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return err
	}

	return nil
}

const selectUser = `SELECT id, name, email, password, phone, role, status, created_at FROM users`

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *repository) FindByVerificationToken(ctx context.Context, tokenHash string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE verification_token = $1`, tokenHash))
}

// MarkVerified consumes the verification token. It reports
// ErrInvalidVerificationToken when the account is no longer unverified.
func (r *repository) MarkVerified(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET status = $1, verification_token = NULL
		WHERE id = $2 AND status = $3
	`, StatusVerified, id, StatusUnverified)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrInvalidVerificationToken)
}

func (r *repository) SetResetToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token = $1, reset_token_expire = $2
		WHERE id = $3
	`, tokenHash, expiresAt, id)
	return err
}

func (r *repository) FindByResetToken(ctx context.Context, tokenHash string) (*User, time.Time, error) {
	var (
		u         User
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, status, reset_token_expire
		FROM users
		WHERE reset_token = $1
	`, tokenHash).Scan(&u.ID, &u.Name, &u.Email, &u.Status, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrInvalidResetToken
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return &u, expiresAt, nil
}

// ResetPassword swaps the password and clears the reset token only while
// tokenHash is still the current one, so a token works once.
func (r *repository) ResetPassword(ctx context.Context, id uint, tokenHash, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password = $1, reset_token = NULL, reset_token_expire = NULL
		WHERE id = $2 AND reset_token = $3
	`, passwordHash, id, tokenHash)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrInvalidResetToken)
}

func expectOneRow(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return none
	}
	return nil
}

func (r *repository) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Phone, &u.Role, &u.Status, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
