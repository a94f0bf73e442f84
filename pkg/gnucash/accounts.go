// Package gnucash loads the two CSV exports GnuCash produces: the account
// tree export and the transactions export.
package gnucash

import (
	"encoding/csv"
	"fmt"
	"io"
)

// AccountColumns is the number of columns in a GnuCash account tree export.
const AccountColumns = 12

// Account represents one row of the account tree export.
type Account struct {
	Type            string
	FullAccountName string
	AccountName     string
	AccountCode     string
	Description     string
	AccountColor    string
	Notes           string
	Symbol          string
	Namespace       string
	Hidden          string
	TaxInfo         string
	Placeholder     string
}

// AccountsFile holds a loaded account tree export.
type AccountsFile struct {
	Header   []string
	Accounts []Account

	byFullName map[string]*Account
}

// LoadAccounts parses a GnuCash account tree CSV export.
func LoadAccounts(r io.Reader) (*AccountsFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = AccountColumns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts header: %w", err)
	}

	file := &AccountsFile{
		Header:     header,
		byFullName: make(map[string]*Account),
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read accounts row: %w", err)
		}

		file.Accounts = append(file.Accounts, Account{
			Type:            row[0],
			FullAccountName: row[1],
			AccountName:     row[2],
			AccountCode:     row[3],
			Description:     row[4],
			AccountColor:    row[5],
			Notes:           row[6],
			Symbol:          row[7],
			Namespace:       row[8],
			Hidden:          row[9],
			TaxInfo:         row[10],
			Placeholder:     row[11],
		})
	}

	for i := range file.Accounts {
		file.byFullName[file.Accounts[i].FullAccountName] = &file.Accounts[i]
	}

	return file, nil
}

// ByFullName looks up an account by its full account name. The match is
// exact: no case normalization, no partial matching.
func (f *AccountsFile) ByFullName(fullName string) (*Account, bool) {
	account, ok := f.byFullName[fullName]
	return account, ok
}
