package model

import "github.com/shopspring/decimal"

// Account is a ledger account with a running balance. The balance always
// equals the signed sum of the transactions that reference the account.
type Account struct {
	ID       string
	Name     string
	Currency string
	Balance  decimal.Decimal
}
