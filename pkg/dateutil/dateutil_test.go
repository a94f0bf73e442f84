package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAny(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"iso", "2022-08-15", Date(2022, time.August, 15)},
		{"us slashed short year", "08/15/22", Date(2022, time.August, 15)},
		{"us slashed full year", "08/15/2022", Date(2022, time.August, 15)},
		{"german dotted short year", "15.08.22", Date(2022, time.August, 15)},
		{"german dotted full year", "15.08.2022", Date(2022, time.August, 15)},
		{"compact", "20220815", Date(2022, time.August, 15)},
		{"unix timestamp", "1660521600", Date(2022, time.August, 15)},
		{"surrounding whitespace", " 2022-08-15 ", Date(2022, time.August, 15)},
		{"two-digit year is never pre-2000", "12/31/99", Date(2099, time.December, 31)},
		{"full year end of year", "12/31/2022", Date(2022, time.December, 31)},
		{"four-digit pre-2000 iso", "1999-12-31", Date(1999, time.December, 31)},
		{"four-digit pre-2000 us slashed", "12/31/1999", Date(1999, time.December, 31)},
		{"four-digit pre-2000 german dotted", "31.12.1999", Date(1999, time.December, 31)},
		{"four-digit pre-2000 compact", "19991231", Date(1999, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAny(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAnyInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not a date"},
		{"wrong separators", "2022/08-15"},
		{"impossible month", "99999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAny(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDateFormat)
		})
	}
}

// Every supported textual format must survive a format/parse round trip.
func TestParseAnyRoundTrip(t *testing.T) {
	layouts := []string{
		"2006-01-02",
		"01/02/2006",
		"02.01.2006",
		"20060102",
	}
	dates := []time.Time{
		Date(1998, time.May, 20),
		Date(2001, time.January, 1),
		Date(2022, time.August, 15),
		Date(2023, time.December, 31),
	}

	for _, layout := range layouts {
		for _, d := range dates {
			got, err := ParseAny(d.Format(layout))
			require.NoError(t, err, "layout %s date %s", layout, d)
			assert.Equal(t, d, got, "layout %s", layout)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 8, "hello..."},
		{"umlauts counted as runes", "Bürobedarf für Büro", 10, "Bürobed..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.max))
		})
	}
}

func TestTruncateLongDescription(t *testing.T) {
	long := make([]byte, 75)
	for i := range long {
		long[i] = 'a'
	}

	got := Truncate(string(long), 60)
	assert.Len(t, got, 60)
	assert.Equal(t, string(long[:57])+"...", got)
}
