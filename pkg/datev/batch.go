package datev

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Format identification of the files this package produces.
const (
	formatMarker  = "EXTF"
	formatVersion = 700
	categoryID    = 21
	categoryName  = "Buchungsstapel"
	formatRelease = 12
)

// DefaultSKRNumber is the chart-of-accounts number used when no override is
// configured. SKR 04 is the Abschlussgliederungsprinzip chart.
const DefaultSKRNumber = "04"

// Field width limits of the target format.
const (
	maxTitleLen       = 30
	maxPostingTextLen = 60
)

// ErrFieldLength is returned when a value exceeds the fixed width of its
// target field.
var ErrFieldLength = errors.New("field length exceeded")

// BatchConfig carries the header metadata of a booking batch.
type BatchConfig struct {
	StartDate          time.Time
	EndDate            time.Time
	FinancialYearStart time.Time
	SKRNumber          string
	Currency           string
	Title              string
	AuthorInitials     string
	// GeneratedAt stamps the header; zero means time.Now.
	GeneratedAt time.Time
}

// Batch is one period's worth of bookings plus header metadata. Rows are
// written in insertion order.
type Batch struct {
	config   BatchConfig
	bookings []Booking
}

// NewBatch validates the header metadata and creates an empty batch. The
// start and end date must lie within the same calendar year (DATEV requires
// one file per fiscal year), and the title is limited to 30 characters.
func NewBatch(config BatchConfig) (*Batch, error) {
	if utf8.RuneCountInString(config.Title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title %q is longer than %d characters",
			ErrFieldLength, config.Title, maxTitleLen)
	}
	if config.StartDate.Year() != config.EndDate.Year() {
		return nil, fmt.Errorf("start date %s and end date %s must be within the same year",
			config.StartDate.Format("2006-01-02"), config.EndDate.Format("2006-01-02"))
	}

	if config.SKRNumber == "" {
		config.SKRNumber = DefaultSKRNumber
	}
	if config.Currency == "" {
		config.Currency = "EUR"
	}
	if config.GeneratedAt.IsZero() {
		config.GeneratedAt = time.Now()
	}

	return &Batch{config: config}, nil
}

// StartDate returns the first day of the batch's date range.
func (b *Batch) StartDate() time.Time {
	return b.config.StartDate
}

// FinancialYearStart returns the fiscal-year start declared in the header.
func (b *Batch) FinancialYearStart() time.Time {
	return b.config.FinancialYearStart
}

// Bookings returns the rows added so far, in insertion order.
func (b *Batch) Bookings() []Booking {
	return b.bookings
}

// AddBooking appends one row to the batch. The posting text must fit the
// 60-character field; callers are expected to truncate beforehand.
func (b *Batch) AddBooking(booking Booking) error {
	if utf8.RuneCountInString(booking.PostingText) > maxPostingTextLen {
		return fmt.Errorf("%w: posting text %q is longer than %d characters",
			ErrFieldLength, booking.PostingText, maxPostingTextLen)
	}

	if booking.Options.CurrencyCodeRevenue == "" {
		booking.Options.CurrencyCodeRevenue = b.config.Currency
	}

	b.bookings = append(b.bookings, booking)
	return nil
}

// WriteTo serializes the batch: header row, column caption row, then one row
// per booking.
func (b *Batch) WriteTo(w io.Writer) error {
	writer := NewWriter(w)

	if err := writer.WriteRow(b.headerRow()); err != nil {
		return fmt.Errorf("failed to write batch header: %w", err)
	}

	captions := make([]any, len(columnTitles))
	for i, title := range columnTitles {
		captions[i] = title
	}
	if err := writer.WriteRow(captions); err != nil {
		return fmt.Errorf("failed to write column captions: %w", err)
	}

	for i, booking := range b.bookings {
		if err := writer.WriteRow(booking.row()); err != nil {
			return fmt.Errorf("failed to write booking %d: %w", i+1, err)
		}
	}

	return nil
}

// SuggestedFilename returns a filename DATEV software accepts for import:
// EXTF_<title>.csv when a title is given, otherwise a name derived from the
// format metadata and the batch year.
func (b *Batch) SuggestedFilename(title string) string {
	if title != "" {
		return fmt.Sprintf("%s_%s.csv", formatMarker, title)
	}
	return fmt.Sprintf("%s_%d_%d_%s_%d.csv",
		formatMarker, formatVersion, categoryID, categoryName, b.config.StartDate.Year())
}

// headerRow lays out the metadata header, see
// https://developer.datev.de/datev/platform/en/dtvf/formate/header.
func (b *Batch) headerRow() []any {
	title := b.config.Title
	if title == "" {
		title = "Buchungen"
	}

	timestamp := b.config.GeneratedAt.Format("20060102150405") +
		fmt.Sprintf("%03d", b.config.GeneratedAt.Nanosecond()/1e6)

	return []any{
		formatMarker,
		formatVersion,
		categoryID,
		categoryName,
		formatRelease,
		timestamp,
		"",
		"RE",
		"MaxMuster",
		"",
		1001, // consultant number
		1,    // client number
		formatDate(b.config.FinancialYearStart, false),
		4, // account number length
		formatDate(b.config.StartDate, false),
		formatDate(b.config.EndDate, false),
		title,
		b.config.AuthorInitials,
		1,
		"",
		"",
		b.config.Currency,
		"",
		"",
		"",
		"",
		b.config.SKRNumber,
		"",
		"",
		"",
		"",
	}
}

// formatDate renders a date the way DATEV expects it: DDMM for document
// dates (the year comes from the header), YYYYMMDD for header dates.
func formatDate(d time.Time, short bool) string {
	if short {
		return d.Format("0201")
	}
	return d.Format("20060102")
}

// SanitizeTitle strips characters that are not allowed in DATEV filenames.
func SanitizeTitle(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ';':
			return '_'
		}
		return r
	}, title)
}
