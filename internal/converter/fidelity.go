package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/folioconv/folioconv/internal/model"
)

// Fidelity converts Fidelity 401(k) and Roth IRA activity exports. The two
// account types ship different layouts: a 5-column 401(k) file headed by
// "Date" and a 13-column IRA file headed by "Run Date". Both may start with
// a BOM and preamble text before the header.
type Fidelity struct {
	Renames map[string]string
}

const (
	fidelity401kFields = 5
	fidelityIRAFields  = 13
	fidelityIRAColDate = 0
	fidelityIRAColAct  = 1
	fidelityIRAColSym  = 2
	fidelityIRAColQty  = 5
	fidelityIRAColAmt  = 10
)

var fidelity401kTypes = map[string]model.TransactionType{
	"Contributions":     model.TypeBuy,
	"Exchange In":       model.TypeBuy,
	"Exchange Out":      model.TypeSell,
	"RECORDKEEPING FEE": model.TypeFees,
	"Transfers":         model.TypeTransfer,
	"Transfer":          model.TypeTransfer,
	"Dividend":          model.TypeDividend,
	"Dividends":         model.TypeDividend,
}

// fidelityIRAActions classifies IRA action descriptions by substring, most
// specific first. IRA actions are free text like
// "REINVESTMENT FIDELITY 500 INDEX FUND (FXAIX)".
var fidelityIRAActions = []struct {
	substr string
	typ    model.TransactionType
}{
	{"REINVESTMENT", model.TypeBuy},
	{"DIVIDEND RECEIVED", model.TypeDividend},
	{"YOU BOUGHT", model.TypeBuy},
	{"YOU SOLD", model.TypeSell},
	{"INTEREST", model.TypeInterest},
	{"TRANSFER", model.TypeTransfer},
}

// Format returns the converter name.
func (c *Fidelity) Format() string { return "fidelity" }

// Description returns the formats-listing summary.
func (c *Fidelity) Description() string {
	return "Fidelity 401(k) and IRA activity exports"
}

// Sniff looks for a Fidelity header line.
func (c *Fidelity) Sniff(data []byte) bool {
	lines, err := readLines(stripBOM(strings.NewReader(string(data))))
	if err != nil {
		return false
	}
	_, ok := findHeader(lines, isFidelityHeader)
	return ok
}

func isFidelityHeader(line string) bool {
	return strings.HasPrefix(line, "Date,") || strings.HasPrefix(line, "Run Date,")
}

// Convert reads a Fidelity export and returns normalized transactions.
func (c *Fidelity) Convert(r io.Reader) (*Result, error) {
	lines, err := readLines(stripBOM(r))
	if err != nil {
		return nil, err
	}

	start, ok := findHeader(lines, isFidelityHeader)
	if !ok {
		return nil, fmt.Errorf("no Fidelity header found")
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
		return nil, fmt.Errorf("reading Fidelity CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data found in file")
	}

	header := records[0]
	switch {
	case header[0] == "Date" && len(header) == fidelity401kFields:
		return c.convert401k(header, records[1:])
	case header[0] == "Run Date" && len(header) == fidelityIRAFields:
		return c.convertIRA(header, records[1:])
	default:
		return nil, fmt.Errorf("unsupported Fidelity layout: %d columns headed by %q", len(header), header[0])
	}
}

func (c *Fidelity) convert401k(header []string, records [][]string) (*Result, error) {
	res := &Result{SourceHeader: header}

	for i, rec := range records {
		rowNum := i + 2
		if len(rec) != fidelity401kFields {
			res.Skipped++
			continue
		}

		rawType := rec[2]
		if rawType == "Change in Market Value" {
			res.Skipped++
			continue
		}

		date, err := parseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		amount, err := parseOptMoney(rec[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		shares, err := parseOptMoney(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		// Zero-amount transfers are bookkeeping noise in the export.
		if (rawType == "Transfers" || rawType == "Transfer") && amount.IsZero() {
			res.Skipped++
			continue
		}

		typ, ok := fidelity401kTypes[rawType]
		if !ok {
			return nil, fmt.Errorf("row %d: unmapped transaction type %q", rowNum, rawType)
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:       date,
			Investment: rename(c.Renames, rec[1]),
			Type:       typ,
			Shares:     shares,
			Amount:     amount,
			Source:     rec,
		})
	}
	return res, nil
}

func (c *Fidelity) convertIRA(header []string, records [][]string) (*Result, error) {
	res := &Result{SourceHeader: header}

	for i, rec := range records {
		rowNum := i + 2
		if len(rec) != fidelityIRAFields {
			res.Skipped++
			continue
		}

		date, err := parseDate(rec[fidelityIRAColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		action := rec[fidelityIRAColAct]
		typ, ok := classifyFidelityIRA(action)
		if !ok {
			return nil, fmt.Errorf("row %d: unmapped action %q", rowNum, action)
		}

		shares, err := parseOptMoney(rec[fidelityIRAColQty])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		amount, err := parseOptMoney(rec[fidelityIRAColAmt])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:       date,
			Investment: rec[fidelityIRAColSym],
			Type:       typ,
			Shares:     shares,
			Amount:     amount,
			Source:     rec,
		})
	}
	return res, nil
}

func classifyFidelityIRA(action string) (model.TransactionType, bool) {
	upper := strings.ToUpper(action)
	for _, a := range fidelityIRAActions {
		if strings.Contains(upper, a.substr) {
			return a.typ, true
		}
	}
	return "", false
}
