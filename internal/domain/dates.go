package domain

import (
	"fmt"
	"time"
)

// DateLayout is the layout of every date key in file names and reports.
const DateLayout = "2006-01-02"

// ExportTimeLayout formats the exportDate field of every written file.
const ExportTimeLayout = "2006-01-02 15:04:05"

// GeneratedAtLayout formats report metadata timestamps.
const GeneratedAtLayout = "2006-01-02T15:04:05.000000"

// NormalizeDate converts an 8-digit YYYYMMDD date to YYYY-MM-DD.
// Any other input is returned unchanged.
func NormalizeDate(s string) string {
	if len(s) != 8 {
		return s
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return s
		}
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

// ParseDate parses a YYYY-MM-DD or YYYYMMDD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, NormalizeDate(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("domain.ParseDate: %w", err)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Week is a Monday-start, seven-day reporting window.
type Week struct {
	Start  time.Time
	End    time.Time
	Year   int // calendar year of the reference date
	Number int // ISO week number of the reference date
}

// WeekOf returns the week containing t.
func WeekOf(t time.Time) Week {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 … Sunday=6
	start := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
	_, number := t.ISOWeek()
	return Week{
		Start:  start,
		End:    start.AddDate(0, 0, 6),
		Year:   t.Year(),
		Number: number,
	}
}

// Key is the file identifier of the week, e.g. "2024-W07".
func (w Week) Key() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Number)
}

// Dates returns the seven dates of the week in order.
func (w Week) Dates() []string {
	dates := make([]string, 0, 7)
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// MonthDates returns every valid date of the month, from day 1 until the
// first day that does not exist in that month.
func MonthDates(year int, month time.Month) []string {
	var dates []string
	for day := 1; day <= 31; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if d.Month() != month {
			break
		}
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// MonthKey is the file identifier of a month, e.g. "2024-03".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, int(month))
}
