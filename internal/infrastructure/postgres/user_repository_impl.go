package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/domain/repository"
)

const userColumns = `id, name, email, password_hash, is_verified, otp, otp_expiry, balance, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsVerified,
		&u.OTP, &u.OTPExpiry, &u.Balance, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, is_verified, otp, otp_expiry, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.IsVerified, u.OTP, u.OTPExpiry, u.Balance)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

// UpdateOTP replaces the verification code without touching other columns.
func (r *UserRepository) UpdateOTP(ctx context.Context, id, code string, expiry time.Time) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET otp = $1, otp_expiry = $2, updated_at = now() WHERE id = $3`, code, expiry, id)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkVerified consumes the code. It only succeeds while the stored code is
// still the one the caller checked.
func (r *UserRepository) MarkVerified(ctx context.Context, id, code string) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE users SET is_verified = true, otp = NULL, otp_expiry = NULL, updated_at = now()
		WHERE id = $1 AND otp = $2 AND NOT is_verified
	`, id, code)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET balance = $1, updated_at = now() WHERE id = $2`, balance, id)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
