package models

import "time"

// RelativeDate renders t the way the library shows "updated" labels:
// "today 15:04" and "yesterday 15:04" for the two most recent days,
// the date otherwise, and "unknown date" for a zero time. Days are
// evaluated in the time zone of now.
func RelativeDate(t, now time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	local := t.In(now.Location())
	today := truncateDay(now)
	day := truncateDay(local)

	switch {
	case day.Equal(today):
		return "today " + local.Format("15:04")
	case day.Equal(today.AddDate(0, 0, -1)):
		return "yesterday " + local.Format("15:04")
	default:
		return local.Format("2006-01-02")
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
