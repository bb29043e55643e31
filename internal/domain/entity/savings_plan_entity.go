package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// SavingsPlan declares a recurring contribution. Plans are stored only;
// nothing executes them.
type SavingsPlan struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     Frequency       `json:"frequency"`
	DayOfWeek     *string         `json:"dayOfWeek"`
	DayOfMonth    *int            `json:"dayOfMonth"`
	SavingsGoalID *string         `json:"savingsGoalId"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}
