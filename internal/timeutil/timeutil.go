package timeutil

import "time"

const DayLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// EndOfDay is the last representable millisecond of value's day.
func EndOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 23, 59, 59, int(999*time.Millisecond), value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DayKey formats the local calendar day of value.
func DayKey(value time.Time) string {
	return value.In(time.Local).Format(DayLayout)
}

func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, value, time.Local)
}
