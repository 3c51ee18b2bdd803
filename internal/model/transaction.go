package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction by the sign of its amount.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction sources.
const (
	SourceManual   = "manual"
	SourceBankSync = "bank-sync"
)

// Transaction is the canonical ledger transaction, independent of the
// source bank's schema.
type Transaction struct {
	ID           string
	Title        string
	Date         time.Time
	Amount       decimal.Decimal // negative = expense, positive = income
	Type         TransactionType
	Category     string
	AccountID    string
	AccountLabel string
	Source       string // "manual" or "bank-sync"
	BankRef      string // provider transaction id, empty for manual entries
	CreatedAt    time.Time
}

// TypeForAmount returns the transaction type implied by a signed amount.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeExpense
	}
	return TypeIncome
}
