package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
	"github.com/oksasatya/savings-tracker/pkg/metrics"
)

// TransactionIndexer receives every committed ledger record.
type TransactionIndexer interface {
	Index(ctx context.Context, t entity.Transaction)
}

// LedgerService moves money between the cash balance and savings goals.
// Every operation commits the balance change, the goal change and the ledger
// record together; notices go out only after commit.
type LedgerService struct {
	Tx           repo.TxManager
	Users        repo.UserRepository
	Transactions repo.TransactionRepository
	Goals        repo.SavingsGoalRepository
	Notifier     Notifier
	Indexer      TransactionIndexer
	Logger       *logrus.Logger
}

func NewLedgerService(tx repo.TxManager, users repo.UserRepository, txs repo.TransactionRepository, goals repo.SavingsGoalRepository, n Notifier, idx TransactionIndexer, logger *logrus.Logger) *LedgerService {
	return &LedgerService{Tx: tx, Users: users, Transactions: txs, Goals: goals, Notifier: n, Indexer: idx, Logger: logger}
}

type LedgerResult struct {
	Balance     decimal.Decimal
	Goal        *entity.SavingsGoal
	Transaction entity.Transaction
}

// committed carries what the after-commit hooks need.
type committed struct {
	user        entity.User
	goal        *entity.SavingsGoal
	tx          entity.Transaction
	goalReached bool
}

func (s *LedgerService) AddFunds(ctx context.Context, userID string, amount decimal.Decimal, note string) (*LedgerResult, error) {
	return s.run(ctx, entity.TxAddFunds, amount, func(ctx context.Context, c *committed) error {
		u, err := s.lockUser(ctx, userID)
		if err != nil {
			return err
		}
		u.Balance = u.Balance.Add(amount)
		if err := s.Users.UpdateBalance(ctx, u.ID, u.Balance); err != nil {
			return err
		}
		c.user = *u
		return s.record(ctx, c, entity.TxAddFunds, amount, describe("Cash funds added", note), nil)
	})
}

// Deposit moves cash into savings, optionally into one of the user's goals.
func (s *LedgerService) Deposit(ctx context.Context, userID string, amount decimal.Decimal, goalID, note string) (*LedgerResult, error) {
	return s.run(ctx, entity.TxDeposit, amount, func(ctx context.Context, c *committed) error {
		u, err := s.lockUser(ctx, userID)
		if err != nil {
			return err
		}
		if u.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}

		desc := "Deposited to general savings"
		var goalRef *string
		if goalID != "" {
			g, err := s.lockGoal(ctx, userID, goalID)
			if err != nil {
				return err
			}
			wasAchieved := g.Achieved()
			g.CurrentAmount = g.CurrentAmount.Add(amount)
			if err := s.Goals.UpdateCurrentAmount(ctx, g.ID, g.CurrentAmount); err != nil {
				return err
			}
			c.goal = g
			c.goalReached = !wasAchieved && g.Achieved()
			desc = "Deposited to " + g.Name + " savings goal"
			goalRef = &g.ID
		}

		u.Balance = u.Balance.Sub(amount)
		if err := s.Users.UpdateBalance(ctx, u.ID, u.Balance); err != nil {
			return err
		}
		c.user = *u
		return s.record(ctx, c, entity.TxDeposit, amount, describe(desc, note), goalRef)
	})
}

// Withdraw takes cash out of the balance.
func (s *LedgerService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, reason string) (*LedgerResult, error) {
	return s.run(ctx, entity.TxWithdrawal, amount, func(ctx context.Context, c *committed) error {
		u, err := s.lockUser(ctx, userID)
		if err != nil {
			return err
		}
		if u.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
		u.Balance = u.Balance.Sub(amount)
		if err := s.Users.UpdateBalance(ctx, u.ID, u.Balance); err != nil {
			return err
		}
		c.user = *u
		return s.record(ctx, c, entity.TxWithdrawal, amount, describe("Cash withdrawal", reason), nil)
	})
}

// WithdrawFromSavings returns money from a goal to the cash balance.
func (s *LedgerService) WithdrawFromSavings(ctx context.Context, userID string, amount decimal.Decimal, goalID, reason string) (*LedgerResult, error) {
	if goalID == "" {
		return nil, ErrGoalRequired
	}
	return s.run(ctx, entity.TxWithdrawalFromSavings, amount, func(ctx context.Context, c *committed) error {
		u, err := s.lockUser(ctx, userID)
		if err != nil {
			return err
		}
		g, err := s.lockGoal(ctx, userID, goalID)
		if err != nil {
			return err
		}
		if g.CurrentAmount.LessThan(amount) {
			return ErrInsufficientSavings
		}
		g.CurrentAmount = g.CurrentAmount.Sub(amount)
		if err := s.Goals.UpdateCurrentAmount(ctx, g.ID, g.CurrentAmount); err != nil {
			return err
		}
		u.Balance = u.Balance.Add(amount)
		if err := s.Users.UpdateBalance(ctx, u.ID, u.Balance); err != nil {
			return err
		}
		c.user = *u
		c.goal = g
		return s.record(ctx, c, entity.TxWithdrawalFromSavings, amount, describe("Withdrawn from "+g.Name+" savings goal", reason), &g.ID)
	})
}

func (s *LedgerService) run(ctx context.Context, typ entity.TransactionType, amount decimal.Decimal, fn func(ctx context.Context, c *committed) error) (*LedgerResult, error) {
	if !entity.ValidAmount(amount) {
		metrics.LedgerOperations.WithLabelValues(string(typ), "rejected").Inc()
		return nil, ErrInvalidAmount
	}

	var c committed
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		c = committed{}
		return fn(ctx, &c)
	})
	if err != nil {
		metrics.LedgerOperations.WithLabelValues(string(typ), outcome(err)).Inc()
		if outcome(err) == "error" {
			s.Logger.WithError(err).WithFields(logrus.Fields{"type": typ, "amount": amount.String()}).Error("ledger operation failed")
		}
		return nil, err
	}
	metrics.LedgerOperations.WithLabelValues(string(typ), "ok").Inc()

	s.afterCommit(ctx, &c)
	return &LedgerResult{Balance: c.user.Balance, Goal: c.goal, Transaction: c.tx}, nil
}

func (s *LedgerService) afterCommit(ctx context.Context, c *committed) {
	if s.Indexer != nil {
		s.Indexer.Index(ctx, c.tx)
	}
	if s.Notifier == nil {
		return
	}
	tx := c.tx
	s.Notifier.Notify(ctx, Notice{Kind: NoticeTransaction, User: c.user, Transaction: &tx})
	if c.goalReached {
		metrics.GoalsAchieved.Inc()
		goal := *c.goal
		s.Notifier.Notify(ctx, Notice{Kind: NoticeGoalAchieved, User: c.user, Goal: &goal})
	}
}

func (s *LedgerService) lockUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByIDForUpdate(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *LedgerService) lockGoal(ctx context.Context, userID, goalID string) (*entity.SavingsGoal, error) {
	g, err := s.Goals.GetByIDForUpdate(ctx, goalID)
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

func (s *LedgerService) record(ctx context.Context, c *committed, typ entity.TransactionType, amount decimal.Decimal, desc string, goalID *string) error {
	t := &entity.Transaction{
		ID:            uuid.NewString(),
		UserID:        c.user.ID,
		Amount:        amount,
		Type:          typ,
		Description:   desc,
		SavingsGoalID: goalID,
	}
	if err := s.Transactions.Create(ctx, t); err != nil {
		return err
	}
	c.tx = *t
	return nil
}

func describe(base, note string) string {
	if note = strings.TrimSpace(note); note != "" {
		return base + ": " + note
	}
	return base
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInsufficientSavings),
		errors.Is(err, ErrGoalNotFound),
		errors.Is(err, ErrUserNotFound):
		return "rejected"
	}
	return "error"
}
