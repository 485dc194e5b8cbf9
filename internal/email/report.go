package email

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"timeclock-backend/internal/models"
)

const (
	dateLayout = "01/02/2006"
	timeLayout = "01/02/2006 - 15:04:05"
)

// DailyReport renders the daily view as the subject and body of the
// attendance report e-mail.
func DailyReport(day time.Time, rows []models.DailySummary, loc *time.Location) (subject string, body string) {
	date := day.In(loc).Format(dateLayout)
	subject = "Daily Attendance Report - " + date

	var b strings.Builder
	b.WriteString(subject)
	b.WriteString("\n\n")
	if len(rows) == 0 {
		b.WriteString("No attendance records today.\n")
	}
	for _, row := range rows {
		clockOut := "Not clocked out"
		if row.ClockOut != nil {
			clockOut = row.ClockOut.In(loc).Format(timeLayout)
		}
		fmt.Fprintf(&b, "%s: %s - %s (%.2f hours) [%s]\n",
			row.EmployeeID,
			row.ClockIn.In(loc).Format(timeLayout),
			clockOut,
			row.TotalHours,
			row.Status,
		)
	}
	return subject, b.String()
}

// ValidAddress reports whether addr is a single bare e-mail address.
func ValidAddress(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
