package domain

import "time"

// CalendarPeriod maps a date to a fiscal year and period on a calendar-year
// fiscal calendar with monthly periods.
func CalendarPeriod(date time.Time) (year, period int) {
	return date.Year(), int(date.Month())
}
