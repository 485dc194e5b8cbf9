package rollup

import "time"

// Day returns local midnight of the calendar day containing t.
func Day(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// WeekStart returns Monday 00:00 of the week containing t. Sunday belongs
// to the week that started the previous Monday.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := Day(t, loc)
	weekday := int(day.Weekday())
	offset := 1 - weekday
	if day.Weekday() == time.Sunday {
		offset = -6
	}
	return day.AddDate(0, 0, offset)
}

// MonthLabel formats the month of t the way the monthly view keys it,
// e.g. "March 2026".
func MonthLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("January 2006")
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}

func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
