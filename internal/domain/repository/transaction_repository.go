package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	// ListByUser returns the user's ledger newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Transaction, error)
	SumByType(ctx context.Context, userID string, typ entity.TransactionType) (decimal.Decimal, error)
}
