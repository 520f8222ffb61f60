package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/folioconv/folioconv/internal/model"
)

// MorganStanley converts Morgan Stanley GSU reports. Two report flavors
// exist, told apart by the header: Releases (has a "Vest Date" column) and
// Withdrawals (has an "Execution Date" column). Each file converts on its
// own; the reports do not cross-reference each other.
type MorganStanley struct {
	// Symbol is the ticker recorded on every row. The reports never name
	// the security they cover.
	Symbol string
}

// Format returns the converter name.
func (c *MorganStanley) Format() string { return "morganstanley" }

// Description returns the formats-listing summary.
func (c *MorganStanley) Description() string {
	return "Morgan Stanley GSU Releases and Withdrawals reports"
}

// Sniff checks the first line for a Morgan Stanley report header.
func (c *MorganStanley) Sniff(data []byte) bool {
	lines, err := readLines(strings.NewReader(string(data)))
	if err != nil || len(lines) == 0 {
		return false
	}
	first := lines[0]
	return strings.Contains(first, "Vest Date") || strings.Contains(first, "Execution Date")
}

// Convert reads a Releases or Withdrawals report and returns normalized
// transactions.
func (c *MorganStanley) Convert(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading Morgan Stanley CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data found in file")
	}

	header := records[0]
	switch {
	case hasColumn(header, "Vest Date"):
		return c.convertReleases(header, records[1:])
	case hasColumn(header, "Execution Date"):
		return c.convertWithdrawals(header, records[1:])
	default:
		return nil, fmt.Errorf("unknown report type: header has neither %q nor %q", "Vest Date", "Execution Date")
	}
}

func hasColumn(header []string, name string) bool {
	_, err := column(header, name)
	return err == nil
}

func (c *MorganStanley) convertReleases(header []string, records [][]string) (*Result, error) {
	dateIdx, err := column(header, "Vest Date")
	if err != nil {
		return nil, err
	}
	typeIdx, err := column(header, "Type")
	if err != nil {
		return nil, err
	}
	priceIdx, err := column(header, "Price")
	if err != nil {
		return nil, err
	}
	sharesIdx, err := column(header, "Net Share Proceeds")
	if err != nil {
		return nil, err
	}

	res := &Result{SourceHeader: header}
	for i, rec := range records {
		rowNum := i + 2
		if len(rec) != len(header) {
			res.Skipped++
			continue
		}

		price, err := parseMoney(rec[priceIdx])
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: could not parse price %q; skipping", rowNum, rec[priceIdx]))
			res.Skipped++
			continue
		}
		shares, err := parseMoney(rec[sharesIdx])
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: could not parse net share proceeds %q; skipping", rowNum, rec[sharesIdx]))
			res.Skipped++
			continue
		}

		date, err := parseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if rec[typeIdx] != "Release" {
			return nil, fmt.Errorf("row %d: unmapped release type %q", rowNum, rec[typeIdx])
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:       date,
			Investment: c.Symbol,
			Type:       model.TypeBuy,
			Shares:     shares,
			Amount:     price.Mul(shares).Round(2),
			Source:     rec,
		})
	}
	return res, nil
}

func (c *MorganStanley) convertWithdrawals(header []string, records [][]string) (*Result, error) {
	dateIdx, err := column(header, "Execution Date")
	if err != nil {
		return nil, err
	}
	typeIdx, err := column(header, "Type")
	if err != nil {
		return nil, err
	}
	qtyIdx, err := column(header, "Quantity")
	if err != nil {
		return nil, err
	}
	amountIdx, err := column(header, "Net Amount")
	if err != nil {
		return nil, err
	}

	res := &Result{SourceHeader: header}
	for i, rec := range records {
		rowNum := i + 2

		// Reports end with a disclaimer paragraph.
		if len(rec) > 0 && strings.HasPrefix(rec[0], "Please note that") {
			res.Skipped++
			continue
		}
		if len(rec) != len(header) {
			res.Skipped++
			continue
		}

		date, err := parseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if rec[typeIdx] != "Sale" {
			return nil, fmt.Errorf("row %d: unmapped withdrawal type %q", rowNum, rec[typeIdx])
		}

		shares, err := parseMoney(rec[qtyIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		amount, err := parseMoney(rec[amountIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:       date,
			Investment: c.Symbol,
			Type:       model.TypeSell,
			Shares:     shares,
			Amount:     amount,
			Source:     rec,
		})
	}
	return res, nil
}
