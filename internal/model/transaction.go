package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the normalized transaction vocabulary understood by the
// downstream portfolio import tool.
type TransactionType string

const (
	TypeBuy      TransactionType = "Buy"
	TypeSell     TransactionType = "Sell"
	TypeDividend TransactionType = "Dividend"
	TypeFees     TransactionType = "Fees"
	TypeInterest TransactionType = "Interest"
	TypeDeposit  TransactionType = "Deposit"
	TypeRemoval  TransactionType = "Removal"
	TypeTransfer TransactionType = "Transfer"
)

// Valid reports whether t belongs to the normalized vocabulary.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeBuy, TypeSell, TypeDividend, TypeFees, TypeInterest,
		TypeDeposit, TypeRemoval, TypeTransfer:
		return true
	}
	return false
}

// Transaction is one normalized output row in the import schema.
type Transaction struct {
	Date       time.Time
	Investment string
	Type       TransactionType
	Shares     decimal.Decimal // non-negative; zero renders blank
	Amount     decimal.Decimal // non-negative; zero renders blank
	Source     []string        // raw input row, kept for passthrough output
}
