package gnucash

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/dateutil"
)

// TransactionColumns is the number of columns in a GnuCash transactions export.
const TransactionColumns = 18

// Split represents one leg of a transaction in the transactions export.
// Splits sharing a TransactionID form one bookkeeping event.
type Split struct {
	Date              time.Time
	TransactionID     string
	Number            string
	Description       string
	Notes             string
	CommodityCurrency string
	VoidReason        string
	Action            string
	Memo              string
	FullAccountName   string
	AccountName       string
	AmountWithSym     string
	Amount            decimal.Decimal
	ValueWithSym      string
	Value             decimal.Decimal
	Reconcile         string
	ReconcileDate     *time.Time
	RatePrice         string
}

// TransactionsFile holds a loaded transactions export.
type TransactionsFile struct {
	Header []string
	Splits []Split
}

// LoadTransactions parses a GnuCash transactions CSV export. Negative amounts
// are debit legs, positive amounts credit legs.
func LoadTransactions(r io.Reader) (*TransactionsFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = TransactionColumns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions header: %w", err)
	}

	file := &TransactionsFile{Header: header}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read transactions row: %w", err)
		}

		date, err := dateutil.ParseAny(row[0])
		if err != nil {
			return nil, fmt.Errorf("transaction %q: %w", row[1], err)
		}

		amount, err := parseAmount(row[12])
		if err != nil {
			return nil, fmt.Errorf("transaction %q: invalid amount %q: %w", row[1], row[12], err)
		}

		value, err := parseAmount(row[14])
		if err != nil {
			return nil, fmt.Errorf("transaction %q: invalid value %q: %w", row[1], row[14], err)
		}

		var reconcileDate *time.Time
		if strings.TrimSpace(row[16]) != "" {
			d, err := dateutil.ParseAny(row[16])
			if err != nil {
				return nil, fmt.Errorf("transaction %q: reconcile date: %w", row[1], err)
			}
			reconcileDate = &d
		}

		file.Splits = append(file.Splits, Split{
			Date:              date,
			TransactionID:     row[1],
			Number:            row[2],
			Description:       row[3],
			Notes:             row[4],
			CommodityCurrency: row[5],
			VoidReason:        row[6],
			Action:            row[7],
			Memo:              row[8],
			FullAccountName:   row[9],
			AccountName:       row[10],
			AmountWithSym:     row[11],
			Amount:            amount,
			ValueWithSym:      row[13],
			Value:             value,
			Reconcile:         row[15],
			ReconcileDate:     reconcileDate,
			RatePrice:         row[17],
		})
	}

	return file, nil
}

// DateRange returns the earliest and latest split dates in the file.
func (f *TransactionsFile) DateRange() (start, end time.Time, ok bool) {
	if len(f.Splits) == 0 {
		return time.Time{}, time.Time{}, false
	}

	start, end = f.Splits[0].Date, f.Splits[0].Date
	for _, s := range f.Splits[1:] {
		if s.Date.Before(start) {
			start = s.Date
		}
		if s.Date.After(end) {
			end = s.Date
		}
	}
	return start, end, true
}

// parseAmount parses a GnuCash numeric amount field, which uses a
// thousands-separated decimal string like "1,234.56".
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
