package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionType_Valid(t *testing.T) {
	for _, typ := range []TransactionType{
		TypeBuy, TypeSell, TypeDividend, TypeFees,
		TypeInterest, TypeDeposit, TypeRemoval, TypeTransfer,
	} {
		assert.True(t, typ.Valid(), string(typ))
	}
}

func TestTransactionType_Invalid(t *testing.T) {
	assert.False(t, TransactionType("Dividend Received").Valid())
	assert.False(t, TransactionType("").Valid())
	assert.False(t, TransactionType("buy").Valid())
}
