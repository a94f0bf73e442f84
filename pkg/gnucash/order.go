package gnucash

import (
	"encoding/csv"
	"fmt"
	"io"
)

// EnsureExportOrder checks that the two export files were passed in the
// expected order (accounts first, transactions second) and swaps them if not.
// The transactions export has considerably more columns than the accounts
// export, so comparing the header widths is enough. Both readers are rewound
// before returning.
func EnsureExportOrder(accounts, transactions io.ReadSeeker) (acc, txn io.ReadSeeker, swapped bool, err error) {
	accCols, err := headerWidth(accounts)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to inspect accounts export: %w", err)
	}
	txnCols, err := headerWidth(transactions)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to inspect transactions export: %w", err)
	}

	if accCols > txnCols {
		accounts, transactions = transactions, accounts
		swapped = true
	}

	if _, err := accounts.Seek(0, io.SeekStart); err != nil {
		return nil, nil, false, fmt.Errorf("failed to rewind accounts export: %w", err)
	}
	if _, err := transactions.Seek(0, io.SeekStart); err != nil {
		return nil, nil, false, fmt.Errorf("failed to rewind transactions export: %w", err)
	}

	return accounts, transactions, swapped, nil
}

func headerWidth(r io.ReadSeeker) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, err
	}
	return len(header), nil
}
