package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
	// UpdateOTP stores a new verification code and expiry.
	UpdateOTP(ctx context.Context, id, code string, expiry time.Time) error
	// MarkVerified sets the user verified and clears the code, provided the
	// stored code still equals code.
	MarkVerified(ctx context.Context, id, code string) error
}
