package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
)

type SavingsGoalRepository interface {
	Create(ctx context.Context, g *entity.SavingsGoal) error
	GetByID(ctx context.Context, id string) (*entity.SavingsGoal, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.SavingsGoal, error)
	ListByUser(ctx context.Context, userID string) ([]entity.SavingsGoal, error)
	UpdateCurrentAmount(ctx context.Context, id string, amount decimal.Decimal) error
}

type SavingsPlanRepository interface {
	Create(ctx context.Context, p *entity.SavingsPlan) error
	GetByID(ctx context.Context, id string) (*entity.SavingsPlan, error)
	ListByUser(ctx context.Context, userID string) ([]entity.SavingsPlan, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
