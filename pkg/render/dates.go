package render

import (
	"fmt"

	"github.com/baloola/naucse/pkg/model"
)

// Formats bundles the date/time formatting callbacks the templates use.
// They are opaque pure functions; callers may swap them out wholesale
// (e.g. for a localized site).
type Formats struct {
	Date      func(model.Date) string
	DateRange func(start, end model.Date) string
	Time      func(model.TimeOfDay) string
}

// DefaultFormats returns English long-form formatting.
func DefaultFormats() Formats {
	return Formats{
		Date:      FormatDate,
		DateRange: FormatDateRange,
		Time:      FormatTime,
	}
}

// FormatDate renders a date as "2 January 2006".
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format("2 January 2006")
}

// FormatDateRange renders a date span, collapsing shared parts:
// "2 – 9 January 2006", "30 January – 2 February 2006", or two full
// dates when the years differ.
func FormatDateRange(start, end model.Date) string {
	switch {
	case start.IsZero():
		return FormatDate(end)
	case end.IsZero() || start == end:
		return FormatDate(start)
	case start.Year == end.Year && start.Month == end.Month:
		return fmt.Sprintf("%d – %s", start.Day, end.Time().Format("2 January 2006"))
	case start.Year == end.Year:
		return fmt.Sprintf("%s – %s", start.Time().Format("2 January"), end.Time().Format("2 January 2006"))
	default:
		return fmt.Sprintf("%s – %s", FormatDate(start), FormatDate(end))
	}
}

// FormatTime renders a time of day as "9:00".
func FormatTime(t model.TimeOfDay) string {
	return fmt.Sprintf("%d:%02d", t.Hour, t.Minute)
}
