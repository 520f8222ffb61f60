// Package rules classifies source transaction-type strings into the
// normalized vocabulary by case-insensitive prefix match.
package rules

import (
	"strings"

	"github.com/folioconv/folioconv/internal/model"
)

// Rule maps a source transaction-type prefix to a normalized type.
type Rule struct {
	Prefix string
	Type   model.TransactionType
}

// Table is an ordered rule list. First match wins, so specific prefixes
// must be listed before broader ones ("sell (exchange)" before "sell").
type Table struct {
	rules []Rule
}

// NewTable creates a Table from an ordered rule list.
func NewTable(rs []Rule) *Table {
	t := &Table{rules: make([]Rule, len(rs))}
	for i, r := range rs {
		t.rules[i] = Rule{Prefix: strings.ToLower(strings.TrimSpace(r.Prefix)), Type: r.Type}
	}
	return t
}

// Classify returns the normalized type for a source transaction-type string.
func (t *Table) Classify(src string) (model.TransactionType, bool) {
	s := strings.ToLower(strings.TrimSpace(src))
	for _, r := range t.rules {
		if strings.HasPrefix(s, r.Prefix) {
			return r.Type, true
		}
	}
	return "", false
}

// Rules returns the table's rules in match order.
func (t *Table) Rules() []Rule {
	return t.rules
}

// DefaultBrokerage returns the built-in rule table for Vanguard brokerage
// exports. Specific prefixes come first; the trailing buy/sell/dividend
// entries catch the plain forms.
func DefaultBrokerage() *Table {
	return NewTable([]Rule{
		{Prefix: "capital gain", Type: model.TypeInterest},
		{Prefix: "reinvestment", Type: model.TypeBuy},
		{Prefix: "sweep in", Type: model.TypeBuy},
		{Prefix: "sweep out", Type: model.TypeSell},
		{Prefix: "corp action (redemption)", Type: model.TypeSell},
		{Prefix: "corp action (merger)", Type: model.TypeSell},
		{Prefix: "wire in", Type: model.TypeDeposit},
		{Prefix: "funds received", Type: model.TypeDeposit},
		{Prefix: "conversion (incoming)", Type: model.TypeDeposit},
		{Prefix: "transfer (incoming)", Type: model.TypeDeposit},
		{Prefix: "transfer (outgoing)", Type: model.TypeRemoval},
		{Prefix: "withdrawal", Type: model.TypeRemoval},
		{Prefix: "interest", Type: model.TypeInterest},
		{Prefix: "fee", Type: model.TypeFees},
		{Prefix: "dividend", Type: model.TypeDividend},
		{Prefix: "sell", Type: model.TypeSell},
		{Prefix: "buy", Type: model.TypeBuy},
	})
}
