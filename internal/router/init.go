package router

import (
	"context"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/container"
	handlers "github.com/oksasatya/savings-tracker/internal/interface/http"
	"github.com/oksasatya/savings-tracker/internal/router/modules"
)

type Services struct {
	Auth          *application.AuthService
	Users         *application.UserService
	Ledger        *application.LedgerService
	Savings       *application.SavingsService
	Transactions  *application.TransactionService
	Notifications *application.NotificationService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := container.GetRepositories()

	// a nil *RabbitPublisher must not become a non-nil interface
	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	notifications := application.NewNotificationService(repos.Notifications, pub, cfg, logger)

	transactions := application.NewTransactionService(
		repos.Transactions,
		container.GetES(),
		cfg.ESTransactionsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)
	if err := transactions.EnsureIndex(context.Background()); err != nil {
		logger.WithError(err).Warn("transactions index unavailable")
	}

	return Services{
		Auth:          application.NewAuthService(repos.Users, container.GetJWT(), container.GetRedis(), notifications, logger, cfg.OTPTTL),
		Users:         application.NewUserService(repos.Users, repos.Transactions, repos.Goals, repos.Plans),
		Ledger:        application.NewLedgerService(repos.Tx, repos.Users, repos.Transactions, repos.Goals, notifications, transactions, logger),
		Savings:       application.NewSavingsService(repos.Goals, repos.Plans, logger),
		Transactions:  transactions,
		Notifications: notifications,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svc := buildServices()

	r.Add(modules.NewSystemModule(cfg.MetricsEnabled))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, svc.Ledger, logger), jwt))
	r.Add(modules.NewSavingsModule(handlers.NewSavingsHandler(svc.Savings, logger), jwt))
	r.Add(modules.NewTransactionModule(handlers.NewTransactionHandler(svc.Transactions, logger), jwt))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(svc.Notifications, logger), jwt))
}
