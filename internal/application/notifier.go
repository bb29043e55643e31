package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/config"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
	"github.com/oksasatya/savings-tracker/pkg/mailer"
	tpl "github.com/oksasatya/savings-tracker/pkg/mailer/templates"
	"github.com/oksasatya/savings-tracker/pkg/metrics"
)

type NoticeKind int

const (
	NoticeVerification NoticeKind = iota + 1
	NoticeTransaction
	NoticeGoalAchieved
)

// Notice describes something the user should hear about. Only the fields
// relevant to Kind are set.
type Notice struct {
	Kind NoticeKind
	User entity.User

	// verification
	Code      string
	ExpiresAt time.Time

	// transaction
	Transaction *entity.Transaction

	// goal achieved
	Goal *entity.SavingsGoal
}

// Notifier is invoked after state changes are committed. Implementations must
// not fail the caller: every error is handled internally.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// JobPublisher queues email jobs; satisfied by *helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// NotificationService persists in-app notifications and queues emails.
type NotificationService struct {
	Repo   repo.NotificationRepository
	Pub    JobPublisher
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewNotificationService(r repo.NotificationRepository, pub JobPublisher, cfg *config.Config, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Repo: r, Pub: pub, Cfg: cfg, Logger: logger}
}

func (s *NotificationService) Notify(ctx context.Context, n Notice) {
	// detached from the request so a disconnecting client cannot cancel delivery
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if row := s.inApp(n); row != nil && s.Repo != nil {
		if err := s.Repo.Create(ctx, row); err != nil {
			metrics.NotificationFailures.WithLabelValues("store").Inc()
			s.Logger.WithError(err).WithField("user_id", n.User.ID).Warn("store notification failed")
		}
	}

	job, ok := s.email(n)
	if !ok || s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		metrics.NotificationFailures.WithLabelValues("publish").Inc()
		s.Logger.WithError(err).WithField("user_id", n.User.ID).Warn("publish email job failed")
	}
}

func (s *NotificationService) inApp(n Notice) *entity.Notification {
	row := &entity.Notification{ID: uuid.NewString(), UserID: n.User.ID}
	switch n.Kind {
	case NoticeTransaction:
		if n.Transaction == nil {
			return nil
		}
		row.Type = entity.NotificationTransaction
		row.Title = "Transaction completed"
		row.Message = transactionSentence(n.Transaction.Type, n.Transaction.Amount) +
			" Current balance: " + n.User.Balance.StringFixed(2) + "."
	case NoticeGoalAchieved:
		if n.Goal == nil {
			return nil
		}
		row.Type = entity.NotificationGoalAchieved
		row.Title = "Savings goal achieved!"
		row.Message = `You reached your "` + n.Goal.Name + `" savings goal. Congratulations!`
	default:
		return nil
	}
	return row
}

func (s *NotificationService) email(n Notice) (mailer.EmailJob, bool) {
	if s.Cfg == nil {
		return mailer.EmailJob{}, false
	}
	u := n.User
	var data map[string]any
	var name string
	switch n.Kind {
	case NoticeVerification:
		name = tpl.VerifyOTP
		data = tpl.NewVerifyOTPData(s.Cfg, u.Name, u.Email, n.Code, tpl.WithExpiresAt(n.ExpiresAt))
	case NoticeTransaction:
		if n.Transaction == nil {
			return mailer.EmailJob{}, false
		}
		name = tpl.Transaction
		data = tpl.NewTransactionData(s.Cfg, u.Name, u.Email, transactionLabel(n.Transaction.Type),
			n.Transaction.Amount, u.Balance, tpl.WithTime(n.Transaction.Date), tpl.WithDescription(n.Transaction.Description))
	case NoticeGoalAchieved:
		if n.Goal == nil {
			return mailer.EmailJob{}, false
		}
		name = tpl.GoalAchieved
		data = tpl.NewGoalAchievedData(s.Cfg, u.Name, u.Email, n.Goal.Name, n.Goal.TargetAmount, tpl.WithTime(time.Now()))
	default:
		return mailer.EmailJob{}, false
	}
	return mailer.EmailJob{To: u.Email, Template: name, Data: data}, true
}

func transactionLabel(t entity.TransactionType) string {
	switch t {
	case entity.TxAddFunds:
		return "Cash top-up"
	case entity.TxDeposit:
		return "Savings deposit"
	case entity.TxWithdrawal:
		return "Cash withdrawal"
	case entity.TxWithdrawalFromSavings:
		return "Savings withdrawal"
	}
	return "Transaction"
}

func transactionSentence(t entity.TransactionType, amount decimal.Decimal) string {
	return transactionLabel(t) + " of " + amount.StringFixed(2) + " recorded."
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]entity.Notification, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.Repo.MarkRead(ctx, userID, id); err != nil {
		if isNotFound(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

var _ Notifier = (*NotificationService)(nil)
