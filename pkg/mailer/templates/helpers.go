package templates

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) { d.ExpiresAtText = t.UTC().Format("02 January 2006, 15:04 MST") }
}

func WithDescription(desc string) Option {
	return func(d *EmailData) { d.Description = strings.TrimSpace(desc) }
}

// NewBaseEmailData fills the common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:  name,
		Email: email,
		Type:  typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:      cfg.LogoURL,
		SupportURL:   cfg.SupportURL,
		PrivacyURL:   cfg.PrivacyURL,
		DashboardURL: cfg.DashboardURL,
		Currency:     cfg.CurrencySymbol,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyOTPData(cfg *config.Config, name, email, code string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, VerifyOTP, name, email, opts...)
	d.Code = code
	return ToMap(d)
}

func NewTransactionData(cfg *config.Config, name, email, txType string, amount, balance decimal.Decimal, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, Transaction, name, email, opts...)
	d.TransactionType = txType
	d.Amount = amount.StringFixed(2)
	d.Balance = balance.StringFixed(2)
	return ToMap(d)
}

func NewGoalAchievedData(cfg *config.Config, name, email, goalName string, target decimal.Decimal, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, GoalAchieved, name, email, opts...)
	d.GoalName = goalName
	d.TargetAmount = target.StringFixed(2)
	return ToMap(d)
}
