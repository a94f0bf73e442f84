// Package period partitions a date range into consecutive calendar-year
// windows, the granularity DATEV requires for booking batches.
package period

import (
	"errors"
	"fmt"
	"time"

	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/dateutil"
)

// ErrInvalidRange is returned when the start date is not before the end date.
var ErrInvalidRange = errors.New("invalid date range")

// Period is an inclusive date range confined to a single calendar year.
type Period struct {
	Start time.Time
	End   time.Time
}

// Year returns the calendar year the period lies in.
func (p Period) Year() int {
	return p.Start.Year()
}

// Contains reports whether d falls within the period (inclusive).
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// YearlySplit partitions [start, end] into ordered, contiguous periods, one
// per calendar year touched by the range. The first period starts at start,
// the last ends at end, and every other period spans Jan 1 to Dec 31 of its
// year. Returns ErrInvalidRange unless start < end.
func YearlySplit(start, end time.Time) ([]Period, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start=%s is not before end=%s",
			ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var periods []Period
	prev := start

	for year := start.Year(); year < end.Year(); year++ {
		periods = append(periods, Period{Start: prev, End: dateutil.Date(year, time.December, 31)})
		prev = dateutil.Date(year+1, time.January, 1)
	}

	return append(periods, Period{Start: prev, End: end}), nil
}
