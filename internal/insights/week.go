package insights

import (
	"fmt"
	"time"
)

// weekKey identifies an ISO calendar week.  Week number alone is ambiguous
// across a year boundary (a report spanning New Year can contain two
// distinct "Week 1"s), so identity is always (ISO year, ISO week).
type weekKey struct {
	Year int
	Week int
}

func (k weekKey) before(o weekKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Week < o.Week
}

func isoWeekOf(t time.Time) weekKey {
	y, w := t.ISOWeek()
	return weekKey{Year: y, Week: w}
}

// isoWeekStart returns the Monday beginning the ISO week containing t.
func isoWeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// weekLabel renders the display label for an ISO week,
// e.g. "Week 45 (Nov 04 - Nov 10)".
func weekLabel(week int, start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("Week %d (%s - %s)", week, start.Format("Jan 02"), end.Format("Jan 02"))
}

// shortWeekLabel renders the allow-list form, e.g. "Week 45".
func shortWeekLabel(week int) string {
	return fmt.Sprintf("Week %d", week)
}
