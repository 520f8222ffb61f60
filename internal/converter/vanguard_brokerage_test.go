package converter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioconv/folioconv/internal/model"
	"github.com/folioconv/folioconv/internal/rules"
)

func newVanguardBrokerage() *VanguardBrokerage {
	return &VanguardBrokerage{Rules: rules.DefaultBrokerage()}
}

func TestVanguardBrokerage_Convert(t *testing.T) {
	data := readFixture(t, "vanguard_brokerage.csv")

	res, err := newVanguardBrokerage().Convert(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 7)

	types := make([]model.TransactionType, len(res.Transactions))
	for i, txn := range res.Transactions {
		types[i] = txn.Type
	}
	assert.Equal(t, []model.TransactionType{
		model.TypeBuy,      // sweep in
		model.TypeBuy,      // buy
		model.TypeDividend, // dividend
		model.TypeBuy,      // reinvestment
		model.TypeSell,     // sell (exchange)
		model.TypeInterest, // capital gain
		model.TypeRemoval,  // withdrawal
	}, types)
}

func TestVanguardBrokerage_SweepSharesEqualPrincipal(t *testing.T) {
	data := readFixture(t, "vanguard_brokerage.csv")

	res, err := newVanguardBrokerage().Convert(bytes.NewReader(data))
	require.NoError(t, err)

	// Sweeps trade at $1.00, so shares mirror the principal.
	sweep := res.Transactions[0]
	assert.Equal(t, "250.00", sweep.Shares.StringFixed(2))
	assert.Equal(t, "250.00", sweep.Amount.StringFixed(2))
	assert.Equal(t, "VMFXX", sweep.Investment)
}

func TestVanguardBrokerage_ReinvestmentAmountPositive(t *testing.T) {
	data := readFixture(t, "vanguard_brokerage.csv")

	res, err := newVanguardBrokerage().Convert(bytes.NewReader(data))
	require.NoError(t, err)

	reinvest := res.Transactions[3]
	assert.Equal(t, model.TypeBuy, reinvest.Type)
	assert.Equal(t, "3.21", reinvest.Amount.StringFixed(2))
	assert.False(t, reinvest.Amount.IsNegative())
}

func TestVanguardBrokerage_SymbolPreferredOverName(t *testing.T) {
	data := readFixture(t, "vanguard_brokerage.csv")

	res, err := newVanguardBrokerage().Convert(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "VTI", res.Transactions[1].Investment)
	assert.Equal(t, "VXUS", res.Transactions[4].Investment)
	// Withdrawal rows name no security at all.
	assert.Equal(t, "", res.Transactions[6].Investment)
}

func TestVanguardBrokerage_UnmappedType(t *testing.T) {
	csv := "Account Number,Trade Date,Settlement Date,Transaction Type,Investment Name,Shares,Principal Amount\n" +
		"22223333,01/02/2025,01/02/2025,Journal entry,Some Fund,1.000,10.00\n"

	_, err := newVanguardBrokerage().Convert(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmapped transaction type")
	assert.Contains(t, err.Error(), "Journal entry")
}

func TestVanguardBrokerage_SectionNotFound(t *testing.T) {
	_, err := newVanguardBrokerage().Convert(strings.NewReader("Account Number,Investment Name\n1,Fund\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brokerage transaction data not found")
}

func TestVanguardBrokerage_MissingColumn(t *testing.T) {
	csv := "Account Number,Trade Date,Settlement Date,Transaction Type,Investment Name,Principal Amount\n" +
		"22223333,01/02/2025,01/02/2025,Buy,Some Fund,10.00\n"

	_, err := newVanguardBrokerage().Convert(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "Shares"`)
}

func TestVanguardBrokerage_Sniff(t *testing.T) {
	c := newVanguardBrokerage()
	assert.True(t, c.Sniff(readFixture(t, "vanguard_brokerage.csv")))
	assert.False(t, c.Sniff(readFixture(t, "vanguard_401k.csv")))
	assert.False(t, c.Sniff(readFixture(t, "vanguard_roth.csv")))
	assert.False(t, c.Sniff(readFixture(t, "morganstanley_withdrawals.csv")))
}
