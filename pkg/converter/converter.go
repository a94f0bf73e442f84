package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/dateutil"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/datev"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/gnucash"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/period"
)

// Annotation type tags stamped into the Zusatzinformation columns so the
// original GnuCash data stays recoverable from the DATEV file.
const (
	annotationTransactionID = "OriginalGnuCashTransactionId"
	annotationDescription   = "OriginalTransactionDescription"
)

const (
	maxPostingTextLen = 60
	maxDescriptionLen = 210
)

// ErrAmbiguousSplit is returned when a transaction has more than one split
// on both the debit and the credit side. DATEV supports only one contra
// account per booking, so such a transaction cannot be represented.
var ErrAmbiguousSplit = errors.New("ambiguous split transaction")

// ErrAccountNotFound is returned when a transaction references an account
// that is missing from the accounts export. This usually means the two
// export files do not belong together.
var ErrAccountNotFound = errors.New("account not found")

// Options controls a conversion run.
type Options struct {
	// StartDate and EndDate bound the conversion; zero values are derived
	// from the transaction data.
	StartDate time.Time
	EndDate   time.Time
	// FinancialYearStart overrides the fiscal-year start of the first
	// period only. Later periods always start their fiscal year on Jan 1.
	FinancialYearStart time.Time
	// Title is used for the batch headers and output filenames. Empty
	// derives a "Buchungen <from> bis <to>" title from the date range.
	Title string
	// OutputDir receives the generated files. Must be set.
	OutputDir string
	// Presets supplies SKR number, currency, author initials, and BU keys.
	// Nil uses the built-in defaults.
	Presets *Presets
	// DryRun reconciles everything but writes no files.
	DryRun bool
	// Progress receives human-readable progress lines; nil discards them.
	Progress func(string)
}

// FileInfo describes one generated output file.
type FileInfo struct {
	Path               string
	Period             period.Period
	FinancialYearStart time.Time
	Bookings           int
	Transactions       int
}

// Result summarizes a conversion run.
type Result struct {
	Files []FileInfo
}

// BookingCount returns the total number of emitted booking rows.
func (r *Result) BookingCount() int {
	total := 0
	for _, f := range r.Files {
		total += f.Bookings
	}
	return total
}

// Convert reconciles the transactions export against the accounts export and
// writes one DATEV booking batch per calendar year. Any reconciliation or
// lookup failure aborts the whole run; no partial file is kept for the
// failing period.
func Convert(accounts *gnucash.AccountsFile, transactions *gnucash.TransactionsFile, opts Options) (*Result, error) {
	presets := opts.Presets
	if presets == nil {
		presets = DefaultPresets()
	}

	progress := opts.Progress
	if progress == nil {
		progress = func(string) {}
	}

	start, end := opts.StartDate, opts.EndDate
	if start.IsZero() || end.IsZero() {
		dataStart, dataEnd, ok := transactions.DateRange()
		if !ok {
			return nil, errors.New("transactions export contains no splits")
		}
		if start.IsZero() {
			start = dataStart
		}
		if end.IsZero() {
			end = dataEnd
		}
	}

	periods, err := period.YearlySplit(start, end)
	if err != nil {
		return nil, err
	}

	progress(fmt.Sprintf("Converting transactions from %s to %s (%d %s)…",
		start.Format("2006-01-02"), end.Format("2006-01-02"), len(periods), pluralize("period", len(periods))))

	defaultTitle := fmt.Sprintf("Buchungen %s bis %s", start.Format("2006-01"), end.Format("2006-01"))

	result := &Result{}

	for i, p := range periods {
		// The caller-supplied fiscal-year start applies to the first
		// period only.
		finYearStart := dateutil.Date(p.Year(), time.January, 1)
		if i == 0 && !opts.FinancialYearStart.IsZero() {
			finYearStart = opts.FinancialYearStart
		}

		title := opts.Title
		if title == "" {
			title = defaultTitle
		}

		batch, err := datev.NewBatch(datev.BatchConfig{
			StartDate:          p.Start,
			EndDate:            p.End,
			FinancialYearStart: finYearStart,
			SKRNumber:          presets.SKRNumber,
			Currency:           presets.Currency,
			Title:              title,
			AuthorInitials:     presets.AuthorInitials,
		})
		if err != nil {
			return nil, err
		}

		// DATEV requires one file per year, so only the splits dated in
		// this period's year go into the batch.
		var filtered []gnucash.Split
		for _, s := range transactions.Splits {
			if s.Date.Year() == p.Year() {
				filtered = append(filtered, s)
			}
		}

		txnCount, err := reconcile(batch, filtered, accounts, presets)
		if err != nil {
			return nil, err
		}

		fileTitle := opts.Title
		if fileTitle != "" && len(periods) > 1 {
			fileTitle += fmt.Sprintf("_%d", p.Year())
		}
		filename := batch.SuggestedFilename(datev.SanitizeTitle(fileTitle))
		path := filepath.Join(opts.OutputDir, filename)

		if !opts.DryRun {
			if err := writeBatch(batch, path); err != nil {
				return nil, err
			}
		}

		result.Files = append(result.Files, FileInfo{
			Path:               path,
			Period:             p,
			FinancialYearStart: finYearStart,
			Bookings:           len(batch.Bookings()),
			Transactions:       txnCount,
		})

		progress(fmt.Sprintf(" - Wrote output file %d/%d (%s) containing %d bookings to %q",
			i+1, len(periods), p, txnCount, path))
	}

	progress(fmt.Sprintf("%d DATEV-compatible %s successfully created.",
		len(result.Files), pluralize("file", len(result.Files))))

	return result, nil
}

// reconcile groups the splits by transaction id and emits the paired
// bookings into the batch. Returns the number of transactions processed.
func reconcile(batch *datev.Batch, splits []gnucash.Split, accounts *gnucash.AccountsFile, presets *Presets) (int, error) {
	groups := groupByTransaction(splits)

	for _, group := range groups {
		if err := reconcileGroup(batch, group, accounts, presets); err != nil {
			return 0, err
		}
	}

	return len(groups), nil
}

// transactionGroup is all splits sharing one transaction id, in input order.
type transactionGroup struct {
	id     string
	splits []gnucash.Split
}

// groupByTransaction builds an ordered mapping from transaction id to its
// splits. Unlike a group-by over adjacent rows, this stays correct even if
// the export is not clustered by transaction id.
func groupByTransaction(splits []gnucash.Split) []transactionGroup {
	var groups []transactionGroup
	index := make(map[string]int)

	for _, s := range splits {
		if i, ok := index[s.TransactionID]; ok {
			groups[i].splits = append(groups[i].splits, s)
			continue
		}
		index[s.TransactionID] = len(groups)
		groups = append(groups, transactionGroup{id: s.TransactionID, splits: []gnucash.Split{s}})
	}

	return groups
}

// reconcileGroup converts one transaction into paired debit/credit bookings.
func reconcileGroup(batch *datev.Batch, group transactionGroup, accounts *gnucash.AccountsFile, presets *Presets) error {
	var debitSplits, creditSplits []gnucash.Split
	for _, s := range group.splits {
		switch {
		case s.Amount.IsNegative():
			debitSplits = append(debitSplits, s)
		case s.Amount.IsPositive():
			creditSplits = append(creditSplits, s)
		default:
			// Zero-amount splits belong to neither side and carry no
			// bookable value, so they are skipped, but loudly.
			slog.Warn("Skipping zero-amount split",
				"transaction_id", group.id,
				"account", s.FullAccountName,
				"description", s.Description,
			)
		}
	}

	if len(debitSplits) > 1 && len(creditSplits) > 1 {
		return fmt.Errorf("%w: transaction %q (%q) has %d debit and %d credit splits; "+
			"DATEV supports only one contra account per booking, so split transactions "+
			"with multiple legs on both sides cannot be converted. Split the transaction "+
			"in GnuCash so that one side has exactly one leg.\n%s",
			ErrAmbiguousSplit, group.id, group.splits[0].Description,
			len(debitSplits), len(creditSplits),
			describeLegs(debitSplits, creditSplits, accounts))
	}

	// Whichever side has more than one split carries the bookings; the
	// single split on the other side is the contra leg. In the plain 1:1
	// case the credit split books against the debit split.
	var bookings, contraSide []gnucash.Split
	if len(debitSplits) > 1 {
		bookings, contraSide = debitSplits, creditSplits
	} else {
		bookings, contraSide = creditSplits, debitSplits
	}

	if len(contraSide) == 0 {
		return fmt.Errorf("%w: transaction %q (%q) has no split to use as contra account\n%s",
			ErrAmbiguousSplit, group.id, group.splits[0].Description,
			describeLegs(debitSplits, creditSplits, accounts))
	}
	contraSplit := contraSide[0]

	contraAccount, err := resolveAccount(accounts, contraSplit)
	if err != nil {
		return err
	}

	for _, split := range bookings {
		account, err := resolveAccount(accounts, split)
		if err != nil {
			return err
		}

		indicator := datev.IndicatorCredit
		if split.Amount.IsPositive() {
			indicator = datev.IndicatorDebit
		}

		options := datev.BookingOptions{
			BUKey: presets.BUKey(split.FullAccountName),
		}
		options.AdditionalInfo[0] = datev.InfoField{
			Type:    annotationTransactionID,
			Content: group.id,
		}
		if utf8.RuneCountInString(split.Description) > maxPostingTextLen {
			options.AdditionalInfo[1] = datev.InfoField{
				Type:    annotationDescription,
				Content: dateutil.Truncate(split.Description, maxDescriptionLen),
			}
		}

		err = batch.AddBooking(datev.Booking{
			Revenue:              split.Amount.Abs(),
			DebitCreditIndicator: indicator,
			Account:              account,
			ContraAccount:        contraAccount,
			DocumentDate:         split.Date,
			PostingText:          dateutil.Truncate(split.Description, maxPostingTextLen),
			Options:              options,
		})
		if err != nil {
			return fmt.Errorf("transaction %q: %w", group.id, err)
		}
	}

	return nil
}

// resolveAccount looks up a split's account and parses its numeric code.
func resolveAccount(accounts *gnucash.AccountsFile, split gnucash.Split) (int, error) {
	account, ok := accounts.ByFullName(split.FullAccountName)
	if !ok {
		return 0, fmt.Errorf("%w: account %q from booking %q cannot be found in the "+
			"exported accounts file; this potentially indicates that the supplied "+
			"transactions export does not match the supplied accounts export",
			ErrAccountNotFound, split.FullAccountName, split.Description)
	}

	code, err := strconv.Atoi(strings.TrimSpace(account.AccountCode))
	if err != nil {
		return 0, fmt.Errorf("account %q has non-numeric account code %q",
			account.FullAccountName, account.AccountCode)
	}

	return code, nil
}

// describeLegs renders the debit and credit legs of a transaction for the
// ambiguity diagnostics, so the operator can fix the source data.
func describeLegs(debitSplits, creditSplits []gnucash.Split, accounts *gnucash.AccountsFile) string {
	var sb strings.Builder

	writeSide := func(label string, side []gnucash.Split) {
		fmt.Fprintf(&sb, "  - %s splits:\n", label)
		for _, s := range side {
			code := "?"
			if account, ok := accounts.ByFullName(s.FullAccountName); ok {
				code = account.AccountCode
			}
			fmt.Fprintf(&sb, "    - %s in %s %q\n", s.AmountWithSym, code, s.FullAccountName)
		}
	}

	writeSide("Debit", debitSplits)
	writeSide("Credit", creditSplits)

	return strings.TrimRight(sb.String(), "\n")
}

func writeBatch(batch *datev.Batch, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := batch.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
