package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/config"
	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/db"
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display the conversion history",
	Long: `Display the DATEV files generated by previous conversion runs.

Shows:
- One line per generated file (period, booking count, path)
- Total number of generated files and bookings
- Last conversion timestamp

Example:
  gnucash-datev history`,
	Run: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	slog.Debug("Opening history database", "path", cfg.Datev.HistoryDBPath)
	conn, err := db.Open(cfg.Datev.HistoryDBPath)
	exitOnError(err, "failed to open history database")
	defer conn.Close()

	history := db.NewHistory(conn)

	records, err := history.List()
	exitOnError(err, "failed to list conversion history")

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Conversion History ===")
	if len(records) == 0 {
		fmt.Println("(no conversions recorded)")
	}
	for _, r := range records {
		fmt.Printf("%s  %s to %s  %4d bookings  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.PeriodStart, r.PeriodEnd,
			r.BookingCount, r.OutputFile,
		)
	}

	fmt.Println("\n=== Totals ===")
	fmt.Printf("Generated files:    %d\n", stats.TotalFiles)
	fmt.Printf("Emitted bookings:   %d\n", stats.TotalBookings)
	fmt.Printf("Transactions:       %d\n", stats.TotalTransactions)
	if stats.LastConversion.Valid {
		fmt.Printf("Last conversion:    %s\n", stats.LastConversion.String)
	} else {
		fmt.Printf("Last conversion:    (never)\n")
	}
	fmt.Println()
}
