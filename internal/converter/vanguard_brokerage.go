package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/folioconv/folioconv/internal/model"
	"github.com/folioconv/folioconv/internal/rules"
)

// VanguardBrokerage converts Vanguard brokerage account exports. The export
// is a multi-section file (holdings, then transactions); the transaction
// section starts at a header containing "Account Number,Trade Date,
// Settlement Date" and ends at a blank line or a repeated section header.
type VanguardBrokerage struct {
	Rules *rules.Table
}

const vanguardBrokerageMarker = "Account Number,Trade Date,Settlement Date"

// Format returns the converter name.
func (c *VanguardBrokerage) Format() string { return "vanguard-brokerage" }

// Description returns the formats-listing summary.
func (c *VanguardBrokerage) Description() string {
	return "Vanguard brokerage account exports"
}

// Sniff looks for the brokerage transaction section header.
func (c *VanguardBrokerage) Sniff(data []byte) bool {
	lines, err := readLines(strings.NewReader(string(data)))
	if err != nil {
		return false
	}
	idx, ok := findHeader(lines, func(line string) bool {
		return strings.Contains(line, vanguardBrokerageMarker)
	})
	if !ok {
		return false
	}
	return strings.Contains(lines[idx], "Transaction Type")
}

// Convert reads a brokerage export and returns normalized transactions.
func (c *VanguardBrokerage) Convert(r io.Reader) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	start, ok := findHeader(lines, func(line string) bool {
		return strings.Contains(line, vanguardBrokerageMarker)
	})
	if !ok {
		return nil, fmt.Errorf("brokerage transaction data not found")
	}

	// The transaction section ends at a blank line or the next section.
	section := []string{lines[start]}
	for _, line := range lines[start+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "Account Number,") {
			break
		}
		section = append(section, line)
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(section, "\n")))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading Vanguard CSV: %w", err)
	}

	header := records[0]
	dateIdx, err := column(header, "Trade Date")
	if err != nil {
		return nil, err
	}
	typeIdx, err := column(header, "Transaction Type")
	if err != nil {
		return nil, err
	}
	investIdx, err := column(header, "Investment Name")
	if err != nil {
		return nil, err
	}
	sharesIdx, err := column(header, "Shares")
	if err != nil {
		return nil, err
	}
	amountIdx, err := column(header, "Principal Amount")
	if err != nil {
		return nil, err
	}
	// Symbol is present in newer exports only.
	symbolIdx := -1
	if i, err := column(header, "Symbol"); err == nil {
		symbolIdx = i
	}

	res := &Result{SourceHeader: header}
	for i, rec := range records[1:] {
		rowNum := i + 2
		if len(rec) != len(header) {
			res.Skipped++
			continue
		}

		rawType := strings.ToLower(strings.TrimSpace(rec[typeIdx]))

		amount, err := parseOptMoney(rec[amountIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		var shares decimal.Decimal
		if strings.HasPrefix(rawType, "sweep in") || strings.HasPrefix(rawType, "sweep out") {
			// Settlement-fund sweeps trade at $1.00, so the share count
			// equals the principal.
			shares = amount
		} else {
			shares, err = parseOptMoney(rec[sharesIdx])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		typ, ok := c.Rules.Classify(rec[typeIdx])
		if !ok {
			return nil, fmt.Errorf("row %d: unmapped transaction type %q", rowNum, rec[typeIdx])
		}

		date, err := parseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		investment := rec[investIdx]
		if symbolIdx >= 0 && strings.TrimSpace(rec[symbolIdx]) != "" {
			investment = strings.TrimSpace(rec[symbolIdx])
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:       date,
			Investment: investment,
			Type:       typ,
			Shares:     shares,
			Amount:     amount,
			Source:     rec,
		})
	}
	return res, nil
}
