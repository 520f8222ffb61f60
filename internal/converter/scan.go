package converter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// stripBOM wraps r so a leading UTF-8 byte order mark is removed.
// Fidelity exports carry one.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}

// readLines reads r into trimmed-right lines.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// findHeader returns the index of the first line for which match returns
// true. Exports bury the transaction header under preamble text.
func findHeader(lines []string, match func(string) bool) (int, bool) {
	for i, line := range lines {
		if match(strings.TrimSpace(line)) {
			return i, true
		}
	}
	return 0, false
}

// column returns the index of name in header, or an error naming the
// missing column. Missing columns must fail loudly, never emit blanks.
func column(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q in header", name)
}

// dateLayouts are the date formats the institutions use.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"02-Jan-2006",
	"2-Jan-2006",
}

// parseDate parses an institution date in any known layout.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseMoney parses a currency or share value, dropping "$" and ","
// and returning the absolute value. The import schema wants unsigned
// quantities; direction lives in the transaction type.
func parseMoney(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", "(", "-", ")", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q", s)
	}
	return d.Abs(), nil
}

// parseOptMoney is parseMoney for optional columns; blank means zero.
func parseOptMoney(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Decimal{}, nil
	}
	return parseMoney(s)
}

// parseSigned is parseMoney without the absolute value, for rules that
// branch on sign.
func parseSigned(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", "(", "-", ")", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q", s)
	}
	return d, nil
}

// parseOptSigned is parseSigned for optional columns; blank means zero.
func parseOptSigned(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Decimal{}, nil
	}
	return parseSigned(s)
}

// rename applies an investment-name rename map, if any.
func rename(renames map[string]string, name string) string {
	if to, ok := renames[name]; ok {
		return to
	}
	return name
}
