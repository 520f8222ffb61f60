package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/folioconv/folioconv/internal/model"
)

// Header is the CSV header of the normalized import schema.
const Header = "Date,Investment,Transaction Type,Shares,Amount"

const (
	numFields  = 5
	dateFormat = "2006-01-02"
	colDate    = 0
	colInvest  = 1
	colType    = 2
	colShares  = 3
	colAmount  = 4
)

// Marshal converts a Transaction to a CSV row.
func Marshal(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = txn.Date.Format(dateFormat)
	row[colInvest] = txn.Investment
	row[colType] = string(txn.Type)

	if !txn.Shares.IsZero() {
		row[colShares] = txn.Shares.String()
	}
	if !txn.Amount.IsZero() {
		row[colAmount] = txn.Amount.StringFixed(2)
	}
	return row
}

// Unmarshal converts a CSV row to a Transaction.
func Unmarshal(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	typ := model.TransactionType(record[colType])
	if !typ.Valid() {
		return model.Transaction{}, fmt.Errorf("unknown transaction type %q", record[colType])
	}

	var shares, amount decimal.Decimal
	if record[colShares] != "" {
		shares, err = decimal.NewFromString(record[colShares])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing shares %q: %w", record[colShares], err)
		}
	}
	if record[colAmount] != "" {
		amount, err = decimal.NewFromString(record[colAmount])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
		}
	}

	return model.Transaction{
		Date:       date,
		Investment: record[colInvest],
		Type:       typ,
		Shares:     shares,
		Amount:     amount,
	}, nil
}

// Write writes the header and one row per transaction.
func Write(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(Marshal(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WritePassthrough writes the normalized columns followed by the source
// columns, so unmapped fields stay available for manual mapping at import.
func WritePassthrough(w io.Writer, sourceHeader []string, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append(strings.Split(Header, ","), sourceHeader...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		src := txn.Source
		if len(src) < len(sourceHeader) {
			// Pad short source rows so every output row has the same width.
			src = append(src, make([]string, len(sourceHeader)-len(src))...)
		}
		if err := cw.Write(append(Marshal(txn), src...)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Read reads a normalized CSV back into transactions.
func Read(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
