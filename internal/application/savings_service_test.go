package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/infrastructure/memory"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

func newSavings(store *memory.Store) *application.SavingsService {
	return application.NewSavingsService(store.Goals(), store.Plans(), helpers.NewNopLogger())
}

func ptr[T any](v T) *T { return &v }

func TestCreateGoal(t *testing.T) {
	store := memory.NewStore()
	svc := newSavings(store)
	u := seedUser(t, store, "g@example.com", "0")
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, u.ID, application.GoalInput{
		Name:         " Wedding ",
		TargetAmount: dec("50000"),
		TargetDate:   time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if g.Name != "Wedding" || !g.CurrentAmount.IsZero() || g.UserID != u.ID {
		t.Errorf("goal = %+v", g)
	}

	got, err := svc.GetGoal(ctx, u.ID, g.ID)
	if err != nil || got.ID != g.ID {
		t.Errorf("GetGoal = %+v, %v", got, err)
	}
	goals, _ := svc.ListGoals(ctx, u.ID)
	if len(goals) != 1 {
		t.Errorf("ListGoals len = %d", len(goals))
	}
}

func TestCreateGoalValidation(t *testing.T) {
	store := memory.NewStore()
	svc := newSavings(store)
	date := time.Now().AddDate(1, 0, 0)

	cases := []struct {
		field string
		in    application.GoalInput
	}{
		{"name", application.GoalInput{Name: " ", TargetAmount: dec("10"), TargetDate: date}},
		{"targetAmount", application.GoalInput{Name: "x", TargetAmount: dec("0"), TargetDate: date}},
		{"targetAmount", application.GoalInput{Name: "x", TargetAmount: dec("99.999"), TargetDate: date}},
		{"targetAmount", application.GoalInput{Name: "x", TargetAmount: dec("1000000000000"), TargetDate: date}},
		{"targetDate", application.GoalInput{Name: "x", TargetAmount: dec("10")}},
	}
	for _, tc := range cases {
		_, err := svc.CreateGoal(context.Background(), "u1", tc.in)
		var ve *application.ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Errorf("%s (%s): err = %v", tc.field, tc.in.TargetAmount, err)
		}
	}
}

func TestGetGoalScopedToOwner(t *testing.T) {
	store := memory.NewStore()
	svc := newSavings(store)
	owner := seedUser(t, store, "o@example.com", "0")
	g := seedGoal(t, store, owner.ID, "Mine", "10", "0")

	if _, err := svc.GetGoal(context.Background(), "intruder", g.ID); !errors.Is(err, application.ErrGoalNotFound) {
		t.Errorf("err = %v, want ErrGoalNotFound", err)
	}
}

func TestCreatePlanDayFields(t *testing.T) {
	store := memory.NewStore()
	svc := newSavings(store)
	u := seedUser(t, store, "p@example.com", "0")
	ctx := context.Background()

	weekly, err := svc.CreatePlan(ctx, u.ID, application.PlanInput{
		Amount: dec("25"), Frequency: entity.FrequencyWeekly, DayOfWeek: ptr("Monday"), DayOfMonth: ptr(5),
	})
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if weekly.DayOfWeek == nil || *weekly.DayOfWeek != "monday" || weekly.DayOfMonth != nil || !weekly.IsActive {
		t.Errorf("weekly plan = %+v", weekly)
	}

	monthly, err := svc.CreatePlan(ctx, u.ID, application.PlanInput{
		Amount: dec("100"), Frequency: entity.FrequencyMonthly, DayOfMonth: ptr(31), DayOfWeek: ptr("friday"),
	})
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if monthly.DayOfMonth == nil || *monthly.DayOfMonth != 31 || monthly.DayOfWeek != nil {
		t.Errorf("monthly plan = %+v", monthly)
	}

	daily, err := svc.CreatePlan(ctx, u.ID, application.PlanInput{
		Amount: dec("5"), Frequency: entity.FrequencyDaily, DayOfWeek: ptr("friday"), DayOfMonth: ptr(2),
	})
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if daily.DayOfWeek != nil || daily.DayOfMonth != nil {
		t.Errorf("daily plan keeps day fields: %+v", daily)
	}

	plans, _ := svc.ListPlans(ctx, u.ID)
	if len(plans) != 3 {
		t.Errorf("ListPlans len = %d", len(plans))
	}
}

func TestCreatePlanRejects(t *testing.T) {
	store := memory.NewStore()
	svc := newSavings(store)
	u := seedUser(t, store, "p@example.com", "0")
	other := seedUser(t, store, "q@example.com", "0")
	foreign := seedGoal(t, store, other.ID, "Theirs", "100", "0")
	ctx := context.Background()

	invalid := []application.PlanInput{
		{Amount: dec("0"), Frequency: entity.FrequencyDaily},
		{Amount: dec("0.001"), Frequency: entity.FrequencyDaily},
		{Amount: dec("1e13"), Frequency: entity.FrequencyDaily},
		{Amount: dec("10"), Frequency: entity.FrequencyWeekly},
		{Amount: dec("10"), Frequency: entity.FrequencyWeekly, DayOfWeek: ptr("someday")},
		{Amount: dec("10"), Frequency: entity.FrequencyMonthly},
		{Amount: dec("10"), Frequency: entity.FrequencyMonthly, DayOfMonth: ptr(32)},
		{Amount: dec("10"), Frequency: entity.FrequencyMonthly, DayOfMonth: ptr(0)},
		{Amount: dec("10"), Frequency: "yearly"},
	}
	for i, in := range invalid {
		var ve *application.ValidationError
		if _, err := svc.CreatePlan(ctx, u.ID, in); !errors.As(err, &ve) {
			t.Errorf("case %d: err = %v, want ValidationError", i, err)
		}
	}

	_, err := svc.CreatePlan(ctx, u.ID, application.PlanInput{
		Amount: dec("10"), Frequency: entity.FrequencyDaily, SavingsGoalID: &foreign.ID,
	})
	if !errors.Is(err, application.ErrGoalNotFound) {
		t.Errorf("foreign goal err = %v", err)
	}
}

func TestPlanPauseAndDelete(t *testing.T) {
	store := memory.NewStore()
	svc := newSavings(store)
	u := seedUser(t, store, "p@example.com", "0")
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, u.ID, application.PlanInput{Amount: dec("10"), Frequency: entity.FrequencyDaily})
	if err != nil {
		t.Fatal(err)
	}
	paused, err := svc.SetPlanActive(ctx, u.ID, p.ID, false)
	if err != nil || paused.IsActive {
		t.Fatalf("SetPlanActive = %+v, %v", paused, err)
	}
	if err := svc.DeletePlan(ctx, "intruder", p.ID); !errors.Is(err, application.ErrPlanNotFound) {
		t.Errorf("foreign delete err = %v", err)
	}
	if err := svc.DeletePlan(ctx, u.ID, p.ID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if err := svc.DeletePlan(ctx, u.ID, p.ID); !errors.Is(err, application.ErrPlanNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}
