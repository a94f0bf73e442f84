package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/config"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/converter"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/dateutil"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/db"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/gnucash"
)

var (
	financialYearStart string
	outputDir          string
	batchTitle         string
	noCheckOrder       bool
	convertDryRun      bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert <accounts-csv-export> <transactions-csv-export>",
	Short: "Convert GnuCash exports to DATEV files",
	Long: `Convert a GnuCash account tree export and a GnuCash transactions
export into DATEV Buchungsstapel CSV files, one per calendar year.

This command:
1. Checks (and if needed corrects) the order of the two input files
2. Reconciles split transactions into paired debit/credit bookings
3. Writes one DATEV file per calendar year touched by the data
4. Records each generated file in the conversion history

Example:
  gnucash-datev convert accounts.csv transactions.csv --output-dir ./out
  gnucash-datev convert accounts.csv transactions.csv --financial-year-start 2021-04-01
  gnucash-datev convert accounts.csv transactions.csv --title "Buchungen 2023" --dry-run`,
	Args: cobra.ExactArgs(2),
	Run:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&financialYearStart, "financial-year-start", "",
		"Start of the financial year (YYYY-MM-DD). If omitted, Jan 1 is used for each year")
	convertCmd.Flags().StringVar(&outputDir, "output-dir", "",
		"Directory to place DATEV files in (default: DATEV_OUTPUT_DIR or current directory)")
	convertCmd.Flags().StringVar(&batchTitle, "title", "", "Title of the exported DATEV files")
	convertCmd.Flags().BoolVar(&noCheckOrder, "no-check-exports-order", false,
		"Do not check and correct the order in which the input files are given")
	convertCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "Reconcile everything but write no files")
}

func runConvert(cmd *cobra.Command, args []string) {
	slog.Info("Starting conversion", "accounts", args[0], "transactions", args[1], "dry_run", convertDryRun)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	dir := outputDir
	if dir == "" {
		dir = cfg.Datev.OutputDir
	}
	if dir == "" {
		// Falling back to the current directory is allowed, but only loudly.
		dir, err = os.Getwd()
		exitOnError(err, "failed to determine working directory")
		slog.Warn("No output directory configured, using current directory", "dir", dir)
	}

	presets := converter.DefaultPresets()
	if cfg.Datev.PresetsFile != "" {
		presets, err = converter.LoadPresets(cfg.Datev.PresetsFile)
		exitOnError(err, "failed to load presets")
	}
	if cfg.Datev.SKRNumber != "" {
		presets.SKRNumber = cfg.Datev.SKRNumber
	}
	if cfg.Datev.Currency != "" {
		presets.Currency = cfg.Datev.Currency
	}
	if cfg.Datev.AuthorInitials != "" {
		presets.AuthorInitials = cfg.Datev.AuthorInitials
	}

	opts := converter.Options{
		Title:     batchTitle,
		OutputDir: dir,
		Presets:   presets,
		DryRun:    convertDryRun,
		Progress:  func(line string) { fmt.Println(line) },
	}

	if financialYearStart != "" {
		opts.FinancialYearStart, err = dateutil.ParseAny(financialYearStart)
		exitOnError(err, "invalid --financial-year-start")
	}

	accountsFd, err := os.Open(args[0])
	exitOnError(err, "failed to open accounts export")
	defer accountsFd.Close()

	transactionsFd, err := os.Open(args[1])
	exitOnError(err, "failed to open transactions export")
	defer transactionsFd.Close()

	var accountsR, transactionsR = accountsFd, transactionsFd
	if !noCheckOrder {
		acc, txn, swapped, err := gnucash.EnsureExportOrder(accountsFd, transactionsFd)
		exitOnError(err, "failed to check export order")
		if swapped {
			fmt.Println("Warning: The input files appear to be in the wrong order (transactions " +
				"export was given first). They are being swapped now before continuing. To " +
				"suppress this behavior, pass the '--no-check-exports-order' flag.")
		}
		accountsR = acc.(*os.File)
		transactionsR = txn.(*os.File)
	}

	accounts, err := gnucash.LoadAccounts(accountsR)
	exitOnError(err, "failed to load accounts export")

	transactions, err := gnucash.LoadTransactions(transactionsR)
	exitOnError(err, "failed to load transactions export")

	result, err := converter.Convert(accounts, transactions, opts)
	exitOnError(err, "conversion failed")

	if !convertDryRun {
		recordHistory(cfg, result)
	}

	slog.Info("Conversion completed",
		"files", len(result.Files),
		"bookings", result.BookingCount(),
	)
}

// recordHistory stores the generated files in the conversion history. History
// failures are logged but never fail a conversion that already succeeded.
func recordHistory(cfg *config.Config, result *converter.Result) {
	conn, err := db.Open(cfg.Datev.HistoryDBPath)
	if err != nil {
		slog.Error("Failed to open history database", "path", cfg.Datev.HistoryDBPath, "error", err)
		return
	}
	defer conn.Close()

	history := db.NewHistory(conn)
	for _, f := range result.Files {
		err := history.Record(db.ConversionRecord{
			PeriodStart:        f.Period.Start.Format("2006-01-02"),
			PeriodEnd:          f.Period.End.Format("2006-01-02"),
			FinancialYearStart: f.FinancialYearStart.Format("2006-01-02"),
			OutputFile:         f.Path,
			BookingCount:       f.Bookings,
			TransactionCount:   f.Transactions,
		})
		if err != nil {
			slog.Error("Failed to record conversion", "file", f.Path, "error", err)
		}
	}
}
