package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
)

type UserService struct {
	Users        repo.UserRepository
	Transactions repo.TransactionRepository
	Goals        repo.SavingsGoalRepository
	Plans        repo.SavingsPlanRepository
}

func NewUserService(users repo.UserRepository, txs repo.TransactionRepository, goals repo.SavingsGoalRepository, plans repo.SavingsPlanRepository) *UserService {
	return &UserService{Users: users, Transactions: txs, Goals: goals, Plans: plans}
}

type Profile struct {
	User         *entity.User
	TotalSavings decimal.Decimal
	Goals        []entity.SavingsGoal
	Plans        []entity.SavingsPlan
}

// GetProfile assembles the dashboard view. TotalSavings is everything ever
// deposited minus everything withdrawn from savings.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	deposited, err := s.Transactions.SumByType(ctx, userID, entity.TxDeposit)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.Transactions.SumByType(ctx, userID, entity.TxWithdrawalFromSavings)
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans, err := s.Plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, TotalSavings: deposited.Sub(withdrawn), Goals: goals, Plans: plans}, nil
}
