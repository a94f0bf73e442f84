// Package db provides SQLite storage for the conversion history.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Conversion history table
-- Tracks which DATEV batch files have been generated from GnuCash exports
CREATE TABLE IF NOT EXISTS conversion_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    period_start TEXT NOT NULL,        -- YYYY-MM-DD
    period_end TEXT NOT NULL,          -- YYYY-MM-DD
    financial_year_start TEXT NOT NULL,-- YYYY-MM-DD
    output_file TEXT NOT NULL,         -- Path to the generated DATEV file
    booking_count INTEGER NOT NULL,    -- Rows emitted into the batch
    transaction_count INTEGER NOT NULL,-- Source transactions reconciled
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_conversion_history_period
    ON conversion_history(period_start);

CREATE INDEX IF NOT EXISTS idx_conversion_history_file
    ON conversion_history(output_file);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
