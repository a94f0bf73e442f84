// Package datev builds DATEV-compliant Buchungsstapel CSV files.
package datev

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Writer serializes rows in the DATEV CSV dialect. encoding/csv cannot be
// used here: DATEV requires numeric fields to stay unquoted while using a
// comma as the fraction separator, and all other fields to be quoted.
type Writer struct {
	w         io.Writer
	quoteChar string
	delimiter string
	fracSep   string
	newline   string
}

// NewWriter creates a Writer with the DATEV defaults: semicolon delimiter,
// double-quote quoting, comma fraction separator, CRLF line endings.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:         w,
		quoteChar: `"`,
		delimiter: ";",
		fracSep:   ",",
		newline:   "\r\n",
	}
}

// WriteRow writes one row. Decimals are rendered unquoted with the fraction
// separator, integers unquoted as-is, nil cells as quoted empty fields, and
// everything else quoted with doubled-quote escaping.
func (w *Writer) WriteRow(cells []any) error {
	fields := make([]string, len(cells))

	for i, cell := range cells {
		switch v := cell.(type) {
		case nil:
			fields[i] = w.quoteChar + w.quoteChar
		case decimal.Decimal:
			// Keep the value's scale: an input of 299.00 must stay 299,00.
			s := v.String()
			if exp := v.Exponent(); exp < 0 {
				s = v.StringFixed(-exp)
			}
			fields[i] = strings.Replace(s, ".", w.fracSep, 1)
		case int:
			fields[i] = strconv.Itoa(v)
		case int64:
			fields[i] = strconv.FormatInt(v, 10)
		case string:
			escaped := strings.ReplaceAll(v, w.quoteChar, w.quoteChar+w.quoteChar)
			fields[i] = w.quoteChar + escaped + w.quoteChar
		default:
			return fmt.Errorf("unsupported cell type %T in column %d", cell, i+1)
		}
	}

	if _, err := io.WriteString(w.w, strings.Join(fields, w.delimiter)+w.newline); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}
