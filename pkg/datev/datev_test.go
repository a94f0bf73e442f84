package datev

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestWriterFormatting(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	err := w.WriteRow([]any{
		decimal.RequireFromString("1234.56"),
		"S",
		nil,
		42,
		`say "hi"`,
		decimal.RequireFromString("100"),
	})
	require.NoError(t, err)

	// Decimals unquoted with comma fraction separator, ints unquoted, nil
	// as quoted empty field, strings quoted with doubled quotes, CRLF.
	assert.Equal(t, "1234,56;\"S\";\"\";42;\"say \"\"hi\"\"\";100\r\n", sb.String())
}

func TestWriterRejectsUnsupportedType(t *testing.T) {
	w := NewWriter(&strings.Builder{})
	err := w.WriteRow([]any{3.14})
	assert.Error(t, err)
}

func newTestBatch(t *testing.T) *Batch {
	t.Helper()

	batch, err := NewBatch(BatchConfig{
		StartDate:          date(2022, time.January, 1),
		EndDate:            date(2022, time.December, 31),
		FinancialYearStart: date(2022, time.January, 1),
		Title:              "Buchungen 2022",
		GeneratedAt:        time.Date(2023, time.January, 5, 12, 30, 45, 0, time.UTC),
	})
	require.NoError(t, err)
	return batch
}

func TestNewBatchValidation(t *testing.T) {
	t.Run("title too long", func(t *testing.T) {
		_, err := NewBatch(BatchConfig{
			StartDate: date(2022, time.January, 1),
			EndDate:   date(2022, time.December, 31),
			Title:     strings.Repeat("x", 31),
		})
		assert.ErrorIs(t, err, ErrFieldLength)
	})

	t.Run("range spans years", func(t *testing.T) {
		_, err := NewBatch(BatchConfig{
			StartDate: date(2021, time.June, 1),
			EndDate:   date(2022, time.May, 31),
		})
		assert.Error(t, err)
	})
}

func TestAddBookingPostingTextLimit(t *testing.T) {
	batch := newTestBatch(t)

	err := batch.AddBooking(Booking{
		Revenue:              decimal.RequireFromString("10"),
		DebitCreditIndicator: IndicatorDebit,
		Account:              8400,
		ContraAccount:        1800,
		DocumentDate:         date(2022, time.May, 1),
		PostingText:          strings.Repeat("x", 61),
	})
	assert.ErrorIs(t, err, ErrFieldLength)
}

func TestBatchWriteTo(t *testing.T) {
	batch := newTestBatch(t)

	require.NoError(t, batch.AddBooking(Booking{
		Revenue:              decimal.RequireFromString("299.00"),
		DebitCreditIndicator: IndicatorCredit,
		Account:              6815,
		ContraAccount:        1800,
		DocumentDate:         date(2022, time.March, 1),
		PostingText:          "Office chair",
	}))

	var sb strings.Builder
	require.NoError(t, batch.WriteTo(&sb))

	lines := strings.Split(strings.TrimRight(sb.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)

	// Header row: format marker, version, dates, currency, SKR.
	header := lines[0]
	assert.True(t, strings.HasPrefix(header, `"EXTF";700;21;"Buchungsstapel";12;"20230105123045000";`), header)
	assert.Contains(t, header, `"20220101";"20221231";"Buchungen 2022"`)
	assert.Contains(t, header, `"EUR"`)
	assert.Contains(t, header, `"04"`)

	// Caption row has 120 columns.
	assert.Len(t, strings.Split(lines[1], ";"), 120)
	assert.True(t, strings.HasPrefix(lines[1], `"Umsatz (ohne Soll/Haben-Kz)";"Soll/Haben-Kennzeichen"`))

	// Data row: 124 columns, document date as DDMM, comma fraction separator.
	cells := strings.Split(lines[2], ";")
	assert.Len(t, cells, 124)
	assert.Equal(t, "299,00", cells[0])
	assert.Equal(t, `"H"`, cells[1])
	assert.Equal(t, `"EUR"`, cells[2], "booking inherits batch currency")
	assert.Equal(t, "6815", cells[6])
	assert.Equal(t, "1800", cells[7])
	assert.Equal(t, `"0103"`, cells[9])
	assert.Equal(t, `"Office chair"`, cells[13])
	assert.Equal(t, `""`, cells[102], "field 103 is reserved and always empty")
}

func TestBookingRowAnnotations(t *testing.T) {
	options := BookingOptions{}
	options.AdditionalInfo[0] = InfoField{Type: "OriginalGnuCashTransactionId", Content: "tx-001"}

	booking := Booking{
		Revenue:              decimal.RequireFromString("10"),
		DebitCreditIndicator: IndicatorDebit,
		Account:              8400,
		ContraAccount:        1800,
		DocumentDate:         date(2022, time.May, 1),
		PostingText:          "Invoice 42",
		Options:              options,
	}

	cells := booking.row()
	require.Len(t, cells, 124)
	assert.Equal(t, "OriginalGnuCashTransactionId", cells[47])
	assert.Equal(t, "tx-001", cells[48])
}

func TestSuggestedFilename(t *testing.T) {
	batch := newTestBatch(t)

	assert.Equal(t, "EXTF_Buchungen_2022.csv", batch.SuggestedFilename("Buchungen_2022"))
	assert.Equal(t, "EXTF_700_21_Buchungsstapel_2022.csv", batch.SuggestedFilename(""))
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "a_b_c", SanitizeTitle(`a/b;c`))
	assert.Equal(t, "plain", SanitizeTitle("plain"))
}
