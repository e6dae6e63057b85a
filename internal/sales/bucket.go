package sales

import (
	"cmp"
	"fmt"
	"time"
)

// Day is a calendar date bucket.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// Month is a (year, month) bucket.
type Month struct {
	Year  int
	Month time.Month
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// HourOf returns the hour of day of t in t's own location.
func HourOf(t time.Time) int {
	return t.Hour()
}

// MonthOf returns the year-month bucket of t in t's own location.
func MonthOf(t time.Time) Month {
	y, m, _ := t.Date()
	return Month{Year: y, Month: m}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the month bucket containing the day.
func (d Day) MonthKey() Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Compare orders days chronologically.
func (d Day) Compare(o Day) int {
	if c := cmp.Compare(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, o.Day)
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool {
	return d == Day{}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Compare orders months chronologically.
func (m Month) Compare(o Month) int {
	if c := cmp.Compare(m.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(m.Month, o.Month)
}

// DateRange is an inclusive calendar-day filter. The zero value means no filtering.
type DateRange struct {
	Start Day
	End   Day
}

// DateLayout is the day/month/year layout accepted for range bounds.
const DateLayout = "02/01/2006"

// ParseDateRange parses optional dd/mm/yyyy bounds. Both or neither must be given.
func ParseDateRange(start, end string) (DateRange, error) {
	if start == "" && end == "" {
		return DateRange{}, nil
	}
	if start == "" || end == "" {
		return DateRange{}, ErrIncompleteRange
	}

	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("start %q: %w", start, ErrMalformedDate)
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("end %q: %w", end, ErrMalformedDate)
	}

	return NewDateRange(DayOf(from), DayOf(to))
}

// NewDateRange builds an inclusive range, rejecting inverted bounds.
func NewDateRange(start, end Day) (DateRange, error) {
	if start.IsZero() != end.IsZero() {
		return DateRange{}, ErrIncompleteRange
	}
	if start.Compare(end) > 0 {
		return DateRange{}, ErrInvertedRange
	}
	return DateRange{Start: start, End: end}, nil
}

// IsZero reports whether the range is unset.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether d lies within the range; an unset range contains every day.
func (r DateRange) Contains(d Day) bool {
	if r.IsZero() {
		return true
	}
	return r.Start.Compare(d) <= 0 && d.Compare(r.End) <= 0
}
