package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/folioconv/folioconv/internal/model"
)

// VanguardRetirement converts Vanguard 401(k) and Roth IRA exports. Both
// bury the transaction table under informational preamble; the 401(k)
// flavor carries a "Dollar Amount" column, the Roth flavor a "Principal
// Amount" column.
type VanguardRetirement struct {
	Renames map[string]string
}

const vanguardRetirementMarker = "Account Number,Trade Date"

var vanguard401kTypes = map[string]model.TransactionType{
	"Plan Contribution":               model.TypeBuy,
	"Fee":                             model.TypeFees,
	"Fund to Fund Out":                model.TypeSell,
	"Fund to Fund In":                 model.TypeBuy,
	"Dividends on Equity Investments": model.TypeDividend,
}

var vanguardRothTypes = map[string]model.TransactionType{
	"Dividend Reinvestment": model.TypeBuy,
	"Dividend Received":     model.TypeDividend,
	"Rollover Conversion":   model.TypeBuy,
	"Reinvestment":          model.TypeBuy,
	"Buy":                   model.TypeBuy,
	"Sell":                  model.TypeSell,
}

// Format returns the converter name.
func (c *VanguardRetirement) Format() string { return "vanguard-retirement" }

// Description returns the formats-listing summary.
func (c *VanguardRetirement) Description() string {
	return "Vanguard 401(k) and Roth IRA exports"
}

// Sniff looks for the retirement transaction header. Brokerage exports
// share the "Account Number,Trade Date" prefix but carry a "Transaction
// Type" column; retirement exports classify by "Transaction Description".
func (c *VanguardRetirement) Sniff(data []byte) bool {
	lines, err := readLines(strings.NewReader(string(data)))
	if err != nil {
		return false
	}
	idx, ok := findHeader(lines, func(line string) bool {
		return strings.HasPrefix(line, vanguardRetirementMarker)
	})
	if !ok {
		return false
	}
	header := lines[idx]
	if strings.Contains(header, "Transaction Type") {
		return false
	}
	return strings.Contains(header, "Dollar Amount") || strings.Contains(header, "Principal Amount")
}

// Convert reads a Vanguard retirement export and returns normalized
// transactions.
func (c *VanguardRetirement) Convert(r io.Reader) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	start, ok := findHeader(lines, func(line string) bool {
		return strings.HasPrefix(line, vanguardRetirementMarker)
	})
	if !ok {
		return nil, fmt.Errorf("retirement transaction data not found")
	}

	// Data runs from the header to the first blank line after it.
	section := lines[start:]
	for i, line := range section {
		if strings.TrimSpace(line) == "" {
			section = section[:i]
			break
		}
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(section, "\n")))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading Vanguard CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("retirement transaction data not found")
	}

	header := records[0]

	var amountCol, sharesCol string
	var is401k bool
	switch {
	case hasColumn(header, "Dollar Amount"):
		is401k = true
		amountCol, sharesCol = "Dollar Amount", "Transaction Shares"
	case hasColumn(header, "Principal Amount"):
		amountCol, sharesCol = "Principal Amount", "Shares"
	default:
		return nil, fmt.Errorf("unsupported Vanguard layout: missing %q or %q column", "Dollar Amount", "Principal Amount")
	}

	dateIdx, err := column(header, "Trade Date")
	if err != nil {
		return nil, err
	}
	descIdx, err := column(header, "Transaction Description")
	if err != nil {
		return nil, err
	}
	investIdx, err := column(header, "Investment Name")
	if err != nil {
		return nil, err
	}
	priceIdx, err := column(header, "Share Price")
	if err != nil {
		return nil, err
	}
	amountIdx, err := column(header, amountCol)
	if err != nil {
		return nil, err
	}
	sharesIdx, err := column(header, sharesCol)
	if err != nil {
		return nil, err
	}

	res := &Result{SourceHeader: header}
	for i, rec := range records[1:] {
		rowNum := i + 2
		if len(rec) != len(header) {
			res.Skipped++
			continue
		}

		desc := strings.TrimSpace(rec[descIdx])

		shares, err := parseOptSigned(rec[sharesIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		// Filter rules differ by flavor; all of them drop internal
		// bookkeeping rows that would double-count money movement.
		if is401k {
			if strings.Contains(desc, "Source to Source/Fund to Fund Transfer") {
				res.Skipped++
				continue
			}
			if strings.HasPrefix(desc, "Miscellaneous Credits") && shares.IsZero() {
				res.Skipped++
				continue
			}
		} else if strings.Contains(desc, "Sweep") {
			res.Skipped++
			continue
		}
		if desc == "Fee" && strings.TrimSpace(rec[priceIdx]) == "" {
			res.Skipped++
			continue
		}

		typ, err := c.classify(desc, is401k, shares.Sign())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		date, err := parseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		amount, err := parseOptMoney(rec[amountIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:       date,
			Investment: rename(c.Renames, rec[investIdx]),
			Type:       typ,
			Shares:     shares.Abs(),
			Amount:     amount,
			Source:     rec,
		})
	}
	return res, nil
}

func (c *VanguardRetirement) classify(desc string, is401k bool, sharesSign int) (model.TransactionType, error) {
	if is401k {
		// Miscellaneous Credits rows are exchanges; the share sign tells
		// the direction.
		if strings.HasPrefix(desc, "Miscellaneous Credits") {
			if sharesSign < 0 {
				return model.TypeSell, nil
			}
			return model.TypeBuy, nil
		}
		if typ, ok := vanguard401kTypes[desc]; ok {
			return typ, nil
		}
		return "", fmt.Errorf("unmapped transaction description %q", desc)
	}

	if typ, ok := vanguardRothTypes[desc]; ok {
		return typ, nil
	}
	return "", fmt.Errorf("unmapped transaction description %q", desc)
}
