package agenda

import (
	"time"

	"pauta-cli/internal/brfmt"
)

// GridCell is one slot of the rendered month grid. Day == 0 marks a padding
// slot before the 1st or after the last day of the month.
type GridCell struct {
	Day    int
	Bucket DayBucket
}

func (c GridCell) Padding() bool { return c.Day == 0 }

// MonthGrid lays the month's day buckets into a Sunday-first grid whose
// length is a multiple of 7: leading padding up to the weekday of day 1,
// trailing padding to complete the final week.
func (s *State) MonthGrid(year int, month time.Month) []GridCell {
	buckets := s.MonthData(year, month)
	lead := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())

	total := lead + len(buckets)
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}
	grid := make([]GridCell, total)
	for i, b := range buckets {
		grid[lead+i] = GridCell{Day: i + 1, Bucket: b}
	}
	return grid
}

// WeekSlice takes the 7-cell window at weekOffset from a month grid.
// The offset is snapped down to a multiple of 7 and clamped to
// [0, len(grid)-7]; the effective offset is returned alongside the slice.
func WeekSlice(grid []GridCell, weekOffset int) ([]GridCell, int) {
	if len(grid) < 7 {
		return grid, 0
	}
	off := weekOffset - weekOffset%7
	if off < 0 {
		off = 0
	}
	if last := len(grid) - 7; off > last {
		off = last
	}
	return grid[off : off+7], off
}

// WeekdayHeaders is the Sunday-first header row used by the grid renderer.
var WeekdayHeaders = []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// PrevMonth / NextMonth step the (year, month) pair, carrying the year.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// CellDate resolves a grid cell back to a civil date; ok=false for padding.
func CellDate(year int, month time.Month, c GridCell) (brfmt.Date, bool) {
	if c.Padding() {
		return brfmt.Date{}, false
	}
	return brfmt.NewDate(year, month, c.Day), true
}
