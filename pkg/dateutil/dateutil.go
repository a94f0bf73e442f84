// Package dateutil normalizes the date representations found in GnuCash CSV
// exports into plain calendar dates.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat is returned when a value matches none of the supported
// date representations.
var ErrInvalidDateFormat = errors.New("invalid date format")

// layouts supported for textual dates. Four-digit years are tried before
// two-digit ones, otherwise MM/DD/YYYY would be misread as MM/DD/YY.
var layouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	"02.01.2006",
	"02.01.06",
	"20060102",
}

// ParseAny parses a date from any representation that appears in GnuCash
// exports: ISO (2022-08-15), US slashed (08/15/22, 08/15/2022), German dotted
// (15.08.22, 15.08.2022), compact (20220815), or a numeric Unix timestamp.
// Two-digit years are always interpreted as 2000+YY.
func ParseAny(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDateFormat)
	}

	for _, layout := range layouts {
		if len(s) != len(layout) {
			continue
		}
		d, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := d.Year()
		if !strings.Contains(layout, "2006") && year < 2000 {
			// Two-digit years are 2000+YY; Go's reference layout would map
			// 69-99 into the 1900s. Four-digit years pass through untouched.
			year += 100
		}
		return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	// Not a known textual format; digit-only values are Unix timestamps.
	// Eight digits always mean the compact layout, so a failed compact
	// parse must not be reinterpreted as a timestamp.
	if len(s) != 8 {
		if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
			d := time.Unix(ts, 0).UTC()
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
}

// Date builds a calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate hard-truncates s to at most max runes, replacing the tail with
// "..." when the original was longer.
func Truncate(s string, max int) string {
	const ellipsis = "..."

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}
