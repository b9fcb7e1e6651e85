package brfmt

import (
	"fmt"
	"strings"
	"time"
)

// Date is a civil (time-of-day-free) calendar date. The zero value means
// "no date"; callers must check IsZero before formatting.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// ISO renders YYYY-MM-DD, or "" for the zero date.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Label renders the Brazilian DD/MM/YYYY form, or "" for the zero date.
func (d Date) Label() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Equal(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// ParseDate accepts ISO (YYYY-MM-DD, with or without a trailing time part),
// Brazilian DD/MM/YYYY, and RFC3339 as a last resort. The form-facing inputs
// are partially filled more often than not, so failure is an ok=false, never
// an error.
func ParseDate(text string) (Date, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Date{}, false
	}
	// ISO with optional time suffix ("2024-03-10", "2024-03-10T12:00:00Z", "2024-03-10 12:00").
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return fromTime(t), true
		}
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return fromTime(t), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return fromTime(t), true
	}
	return Date{}, false
}

func fromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current civil date in local time.
func Today() Date {
	return fromTime(time.Now())
}

// FormatLabel converts an ISO date string to DD/MM/YYYY, returning the input
// unchanged when it does not parse.
func FormatLabel(iso string) string {
	d, ok := ParseDate(iso)
	if !ok {
		return iso
	}
	return d.Label()
}

func DaysInMonth(year int, month time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func ClampDay(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	max := DaysInMonth(year, month)
	if day > max {
		return max
	}
	return day
}
