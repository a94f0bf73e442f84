package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Connection {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHistoryRecordAndList(t *testing.T) {
	history := NewHistory(openTestDB(t))

	require.NoError(t, history.Record(ConversionRecord{
		PeriodStart:        "2021-03-01",
		PeriodEnd:          "2021-12-31",
		FinancialYearStart: "2021-04-01",
		OutputFile:         "/out/EXTF_Buchungen_2021.csv",
		BookingCount:       12,
		TransactionCount:   9,
	}))
	require.NoError(t, history.Record(ConversionRecord{
		PeriodStart:        "2022-01-01",
		PeriodEnd:          "2022-12-31",
		FinancialYearStart: "2022-01-01",
		OutputFile:         "/out/EXTF_Buchungen_2022.csv",
		BookingCount:       30,
		TransactionCount:   25,
	}))

	records, err := history.List()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "/out/EXTF_Buchungen_2022.csv", records[0].OutputFile)
	assert.Equal(t, "2021-04-01", records[1].FinancialYearStart)
	assert.Equal(t, 30, records[0].BookingCount)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestHistoryStats(t *testing.T) {
	history := NewHistory(openTestDB(t))

	stats, err := history.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalFiles)
	assert.False(t, stats.LastConversion.Valid)

	require.NoError(t, history.Record(ConversionRecord{
		PeriodStart:        "2022-01-01",
		PeriodEnd:          "2022-12-31",
		FinancialYearStart: "2022-01-01",
		OutputFile:         "/out/EXTF_Buchungen_2022.csv",
		BookingCount:       30,
		TransactionCount:   25,
	}))

	stats, err = history.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, 30, stats.TotalBookings)
	assert.Equal(t, 25, stats.TotalTransactions)
	assert.True(t, stats.LastConversion.Valid)
}
