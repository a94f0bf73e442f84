package db

import (
	"database/sql"
	"fmt"
	"time"
)

// ConversionRecord represents one generated DATEV batch file.
type ConversionRecord struct {
	ID                 int64
	PeriodStart        string
	PeriodEnd          string
	FinancialYearStart string
	OutputFile         string
	BookingCount       int
	TransactionCount   int
	CreatedAt          time.Time
}

// Stats summarizes the conversion history.
type Stats struct {
	TotalFiles        int
	TotalBookings     int
	TotalTransactions int
	LastConversion    sql.NullString
}

// History manages conversion history operations.
type History struct {
	conn *Connection
}

// NewHistory creates a new History instance.
func NewHistory(conn *Connection) *History {
	return &History{conn: conn}
}

// Record stores one generated file in the history.
func (h *History) Record(record ConversionRecord) error {
	query := `
		INSERT INTO conversion_history
			(period_start, period_end, financial_year_start, output_file, booking_count, transaction_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := h.conn.Exec(query,
		record.PeriodStart,
		record.PeriodEnd,
		record.FinancialYearStart,
		record.OutputFile,
		record.BookingCount,
		record.TransactionCount,
	)

	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}

	return nil
}

// List returns all history records, newest first.
func (h *History) List() ([]ConversionRecord, error) {
	query := `
		SELECT id, period_start, period_end, financial_year_start,
		       output_file, booking_count, transaction_count, created_at
		FROM conversion_history
		ORDER BY created_at DESC, id DESC
	`

	rows, err := h.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion history: %w", err)
	}
	defer rows.Close()

	var records []ConversionRecord
	for rows.Next() {
		var r ConversionRecord
		if err := rows.Scan(
			&r.ID,
			&r.PeriodStart,
			&r.PeriodEnd,
			&r.FinancialYearStart,
			&r.OutputFile,
			&r.BookingCount,
			&r.TransactionCount,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversion record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversion history: %w", err)
	}

	return records, nil
}

// GetStats returns aggregate statistics over the history.
func (h *History) GetStats() (*Stats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(booking_count), 0),
		       COALESCE(SUM(transaction_count), 0),
		       MAX(created_at)
		FROM conversion_history
	`

	var stats Stats
	err := h.conn.QueryRow(query).Scan(
		&stats.TotalFiles,
		&stats.TotalBookings,
		&stats.TotalTransactions,
		&stats.LastConversion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	return &stats, nil
}
