package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/domain/repository"
	"github.com/oksasatya/savings-tracker/internal/infrastructure/memory"
)

func TestEmailIsUniqueCaseInsensitive(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	if err := s.Users().Create(ctx, &entity.User{ID: "1", Email: "Ana@Example.com"}); err != nil {
		t.Fatal(err)
	}
	err := s.Users().Create(ctx, &entity.User{ID: "2", Email: "ana@example.COM"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	u, err := s.Users().GetByEmail(ctx, "ANA@EXAMPLE.COM")
	if err != nil || u.ID != "1" {
		t.Errorf("GetByEmail = %+v, %v", u, err)
	}
}

func TestReturnedRowsAreCopies(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	code := "123456"
	in := &entity.User{ID: "1", Email: "a@example.com", OTP: &code}
	if err := s.Users().Create(ctx, in); err != nil {
		t.Fatal(err)
	}
	*in.OTP = "999999"
	in.Balance = decimal.NewFromInt(50)

	got, _ := s.Users().GetByID(ctx, "1")
	if *got.OTP != "123456" || !got.Balance.IsZero() {
		t.Errorf("store shares memory with caller: %+v", got)
	}
}

func TestWithinTxRollsBack(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	if err := s.Users().Create(ctx, &entity.User{ID: "1", Email: "a@example.com", Balance: decimal.NewFromInt(10)}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Users().UpdateBalance(ctx, "1", decimal.NewFromInt(99)); err != nil {
			return err
		}
		if err := s.Transactions().Create(ctx, &entity.Transaction{ID: "t1", UserID: "1", Type: entity.TxAddFunds, Amount: decimal.NewFromInt(89)}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	u, _ := s.Users().GetByID(ctx, "1")
	if !u.Balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("balance = %s, want 10", u.Balance)
	}
	txs, _ := s.Transactions().ListByUser(ctx, "1")
	if len(txs) != 0 {
		t.Errorf("transactions survived rollback: %v", txs)
	}
}

func TestWithinTxNested(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	calls := 0
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		return s.WithinTx(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})
	if err != nil || calls != 1 {
		t.Errorf("nested WithinTx err=%v calls=%d", err, calls)
	}
}

func TestPlansAndGoalsScopedByUser(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	for _, g := range []entity.SavingsGoal{{ID: "g1", UserID: "a"}, {ID: "g2", UserID: "b"}, {ID: "g3", UserID: "a"}} {
		g := g
		if err := s.Goals().Create(ctx, &g); err != nil {
			t.Fatal(err)
		}
	}
	goals, _ := s.Goals().ListByUser(ctx, "a")
	if len(goals) != 2 {
		t.Errorf("goals for a = %d, want 2", len(goals))
	}

	if err := s.Plans().Create(ctx, &entity.SavingsPlan{ID: "p1", UserID: "a", IsActive: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Plans().SetActive(ctx, "p1", false); err != nil {
		t.Fatal(err)
	}
	p, _ := s.Plans().GetByID(ctx, "p1")
	if p.IsActive {
		t.Error("plan still active")
	}
	if err := s.Plans().Delete(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Plans().GetByID(ctx, "p1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("deleted plan err = %v", err)
	}
}

func TestTransactionTypeChecked(t *testing.T) {
	s := memory.NewStore()
	err := s.Transactions().Create(context.Background(), &entity.Transaction{ID: "t1", UserID: "1", Type: "refund", Amount: decimal.NewFromInt(1)})
	if err == nil {
		t.Fatal("unknown transaction type accepted")
	}
	txs, _ := s.Transactions().ListByUser(context.Background(), "1")
	if len(txs) != 0 {
		t.Errorf("rejected transaction stored: %v", txs)
	}
}

func TestCodeUpdatesLeaveBalanceAlone(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	if err := s.Users().Create(ctx, &entity.User{ID: "1", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	expiry := time.Now().Add(time.Minute)
	if err := s.Users().UpdateOTP(ctx, "1", "123456", expiry); err != nil {
		t.Fatal(err)
	}
	if err := s.Users().UpdateBalance(ctx, "1", decimal.NewFromInt(70)); err != nil {
		t.Fatal(err)
	}
	if err := s.Users().MarkVerified(ctx, "1", "654321"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("stale code err = %v, want ErrNotFound", err)
	}
	if err := s.Users().MarkVerified(ctx, "1", "123456"); err != nil {
		t.Fatal(err)
	}
	u, _ := s.Users().GetByID(ctx, "1")
	if !u.IsVerified || u.OTP != nil || u.OTPExpiry != nil || !u.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("user = %+v", u)
	}
	if err := s.Users().UpdateOTP(ctx, "missing", "1", expiry); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}
