package util

import "time"

// ParseDay parses an ISO calendar date (YYYY-MM-DD) in UTC.
func ParseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// LookbackWindow returns the [day - days, day] search window for a
// trading day.
func LookbackWindow(day time.Time, days int) (time.Time, time.Time) {
	if days < 1 {
		days = 1
	}
	return day.AddDate(0, 0, -days), day
}
