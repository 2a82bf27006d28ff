package calendar

import "time"

// DaysInMonth returns the number of days of month in year (proleptic Gregorian).
func DaysInMonth(year, month int) int {
	// day 0 of the next month normalises to the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekendCount returns how many Saturdays and Sundays fall in the month.
func WeekendCount(year, month int) int {
	count := 0
	days := DaysInMonth(year, month)
	for day := 1; day <= days; day++ {
		switch time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			count++
		}
	}
	return count
}

// BusinessDays is the number of weekdays in the month.
func BusinessDays(year, month int) int {
	return DaysInMonth(year, month) - WeekendCount(year, month)
}
