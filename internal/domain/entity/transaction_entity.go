package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxAddFunds              TransactionType = "add_funds"
	TxDeposit               TransactionType = "deposit"
	TxWithdrawal            TransactionType = "withdrawal"
	TxWithdrawalFromSavings TransactionType = "withdrawal_from_savings"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxAddFunds, TxDeposit, TxWithdrawal, TxWithdrawalFromSavings:
		return true
	}
	return false
}

// Transaction is an append-only ledger record. It is never updated or deleted.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Description   string          `json:"description"`
	SavingsGoalID *string         `json:"savingsGoalId"`
	SavingsPlanID *string         `json:"savingsPlanId"`
	Date          time.Time       `json:"date"`
}
