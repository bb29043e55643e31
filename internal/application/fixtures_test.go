package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/infrastructure/memory"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []application.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n application.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) kinds() []application.NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.NoticeKind, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Kind)
	}
	return out
}

func (r *recordingNotifier) count(kind application.NoticeKind) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func (r *recordingNotifier) last() application.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notices[len(r.notices)-1]
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedUser(t *testing.T, store *memory.Store, email, balance string) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:         uuid.NewString(),
		Name:       "Test User",
		Email:      email,
		IsVerified: true,
		Balance:    dec(balance),
	}
	if err := store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedGoal(t *testing.T, store *memory.Store, userID, name, target, current string) *entity.SavingsGoal {
	t.Helper()
	g := &entity.SavingsGoal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		TargetAmount:  dec(target),
		CurrentAmount: dec(current),
		TargetDate:    time.Now().AddDate(0, 6, 0),
	}
	if err := store.Goals().Create(context.Background(), g); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	return g
}

func balanceOf(t *testing.T, store *memory.Store, userID string) decimal.Decimal {
	t.Helper()
	u, err := store.Users().GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return u.Balance
}

func goalAmount(t *testing.T, store *memory.Store, goalID string) decimal.Decimal {
	t.Helper()
	g, err := store.Goals().GetByID(context.Background(), goalID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	return g.CurrentAmount
}

func ledgerLen(t *testing.T, store *memory.Store, userID string) int {
	t.Helper()
	txs, err := store.Transactions().ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	return len(txs)
}
