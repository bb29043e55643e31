package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
)

type SavingsService struct {
	Goals  repo.SavingsGoalRepository
	Plans  repo.SavingsPlanRepository
	Logger *logrus.Logger
}

func NewSavingsService(goals repo.SavingsGoalRepository, plans repo.SavingsPlanRepository, logger *logrus.Logger) *SavingsService {
	return &SavingsService{Goals: goals, Plans: plans, Logger: logger}
}

type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   time.Time
	Description  string
}

func (s *SavingsService) CreateGoal(ctx context.Context, userID string, in GoalInput) (*entity.SavingsGoal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if !entity.ValidAmount(in.TargetAmount) {
		return nil, invalid("targetAmount", "must be a positive amount with at most two decimals")
	}
	if in.TargetDate.IsZero() {
		return nil, invalid("targetDate", "is required")
	}
	g := &entity.SavingsGoal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    in.TargetDate,
		Description:   strings.TrimSpace(in.Description),
	}
	if err := s.Goals.Create(ctx, g); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "goal_id": g.ID}).Info("savings goal created")
	return g, nil
}

func (s *SavingsService) ListGoals(ctx context.Context, userID string) ([]entity.SavingsGoal, error) {
	return s.Goals.ListByUser(ctx, userID)
}

// GetGoal returns the goal only if userID owns it.
func (s *SavingsService) GetGoal(ctx context.Context, userID, goalID string) (*entity.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, goalID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrGoalNotFound
	}
	return g, nil
}

type PlanInput struct {
	Amount        decimal.Decimal
	Frequency     entity.Frequency
	DayOfWeek     *string
	DayOfMonth    *int
	SavingsGoalID *string
}

var weekdays = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// normalize keeps only the day field that matches the frequency.
func (in *PlanInput) normalize() error {
	if !entity.ValidAmount(in.Amount) {
		return invalid("amount", "must be a positive amount with at most two decimals")
	}
	switch in.Frequency {
	case entity.FrequencyDaily:
		in.DayOfWeek, in.DayOfMonth = nil, nil
	case entity.FrequencyWeekly:
		if in.DayOfWeek == nil {
			return invalid("dayOfWeek", "is required for weekly plans")
		}
		d := strings.ToLower(strings.TrimSpace(*in.DayOfWeek))
		if !weekdays[d] {
			return invalid("dayOfWeek", "must be a day of the week")
		}
		in.DayOfWeek, in.DayOfMonth = &d, nil
	case entity.FrequencyMonthly:
		if in.DayOfMonth == nil {
			return invalid("dayOfMonth", "is required for monthly plans")
		}
		if *in.DayOfMonth < 1 || *in.DayOfMonth > 31 {
			return invalid("dayOfMonth", "must be between 1 and 31")
		}
		in.DayOfWeek = nil
	default:
		return invalid("frequency", "must be one of daily weekly monthly")
	}
	if in.SavingsGoalID != nil && strings.TrimSpace(*in.SavingsGoalID) == "" {
		in.SavingsGoalID = nil
	}
	return nil
}

func (s *SavingsService) CreatePlan(ctx context.Context, userID string, in PlanInput) (*entity.SavingsPlan, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.SavingsGoalID != nil {
		if _, err := s.GetGoal(ctx, userID, *in.SavingsGoalID); err != nil {
			return nil, err
		}
	}
	p := &entity.SavingsPlan{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        in.Amount,
		Frequency:     in.Frequency,
		DayOfWeek:     in.DayOfWeek,
		DayOfMonth:    in.DayOfMonth,
		SavingsGoalID: in.SavingsGoalID,
		IsActive:      true,
	}
	if err := s.Plans.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "plan_id": p.ID}).Info("savings plan created")
	return p, nil
}

func (s *SavingsService) ListPlans(ctx context.Context, userID string) ([]entity.SavingsPlan, error) {
	return s.Plans.ListByUser(ctx, userID)
}

func (s *SavingsService) ownedPlan(ctx context.Context, userID, planID string) (*entity.SavingsPlan, error) {
	p, err := s.Plans.GetByID(ctx, planID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

func (s *SavingsService) DeletePlan(ctx context.Context, userID, planID string) error {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return err
	}
	if err := s.Plans.Delete(ctx, planID); err != nil {
		if isNotFound(err) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// SetPlanActive pauses or resumes a plan.
func (s *SavingsService) SetPlanActive(ctx context.Context, userID, planID string, active bool) (*entity.SavingsPlan, error) {
	p, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.Plans.SetActive(ctx, planID, active); err != nil {
		if isNotFound(err) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	p.IsActive = active
	return p, nil
}
