// Package rollup derives the summary views (totals, daily, weekly,
// monthly) from a ledger snapshot.
//
// Recompute is a pure function of the snapshot, the reference instant and
// the time zone that defines calendar days. Views are never patched: every
// pass produces the complete set and the sink replaces what it had.
package rollup

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"timeclock-backend/internal/models"
)

type Views struct {
	AsOf    time.Time               `json:"asOf"`
	Totals  []models.TotalSummary   `json:"totals"`
	Daily   []models.DailySummary   `json:"daily"`
	Weekly  []models.WeeklySummary  `json:"weekly"`
	Monthly []models.MonthlySummary `json:"monthly"`
}

type bucket struct {
	total decimal.Decimal
	days  map[string]struct{}
}

type buckets map[string]*bucket

func (b buckets) add(record models.SessionRecord, loc *time.Location) {
	entry, ok := b[record.EmployeeID]
	if !ok {
		entry = &bucket{days: map[string]struct{}{}}
		b[record.EmployeeID] = entry
	}
	entry.total = entry.total.Add(decimal.NewFromFloat(*record.DurationHours))
	entry.days[dateKey(record.ClockIn, loc)] = struct{}{}
}

func (b buckets) employees() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *bucket) stats() (total float64, days int, average float64) {
	days = len(e.days)
	total = e.total.Round(2).InexactFloat64()
	if days > 0 {
		average = e.total.Div(decimal.NewFromInt(int64(days))).Round(2).InexactFloat64()
	}
	return total, days, average
}

// Recompute builds every view from records as of asOf. Calendar days,
// weeks and months are evaluated in loc.
func Recompute(records []models.SessionRecord, asOf time.Time, loc *time.Location) Views {
	if loc == nil {
		loc = time.Local
	}

	weekStart := WeekStart(asOf, loc)
	weekEnd := weekStart.AddDate(0, 0, 7)
	local := asOf.In(loc)
	today := Day(asOf, loc)

	totals := buckets{}
	weekly := buckets{}
	monthly := buckets{}
	views := Views{
		AsOf:    asOf,
		Totals:  []models.TotalSummary{},
		Daily:   []models.DailySummary{},
		Weekly:  []models.WeeklySummary{},
		Monthly: []models.MonthlySummary{},
	}

	for _, record := range records {
		if record.EmployeeID == "" {
			continue
		}

		if sameDay(record.ClockIn, asOf, loc) {
			row := models.DailySummary{
				Date:       today,
				EmployeeID: record.EmployeeID,
				ClockIn:    record.ClockIn,
				ClockOut:   record.ClockOut,
				TotalHours: record.Hours(),
				Status:     models.DailyStatusClockInOnly,
			}
			if !record.Open() {
				row.Status = models.DailyStatusComplete
			}
			views.Daily = append(views.Daily, row)
		}

		if record.Open() || record.DurationHours == nil {
			continue
		}

		totals.add(record, loc)

		if !record.ClockIn.Before(weekStart) && record.ClockIn.Before(weekEnd) {
			weekly.add(record, loc)
		}

		clockIn := record.ClockIn.In(loc)
		if clockIn.Year() == local.Year() && clockIn.Month() == local.Month() {
			monthly.add(record, loc)
		}
	}

	for _, id := range totals.employees() {
		total, _, _ := totals[id].stats()
		views.Totals = append(views.Totals, models.TotalSummary{EmployeeID: id, TotalHours: total})
	}

	for _, id := range weekly.employees() {
		total, days, average := weekly[id].stats()
		views.Weekly = append(views.Weekly, models.WeeklySummary{
			WeekStarting:       weekStart,
			EmployeeID:         id,
			TotalHours:         total,
			DaysWorked:         days,
			AverageHoursPerDay: average,
		})
	}

	label := MonthLabel(asOf, loc)
	for _, id := range monthly.employees() {
		total, days, average := monthly[id].stats()
		views.Monthly = append(views.Monthly, models.MonthlySummary{
			Month:              label,
			Year:               local.Year(),
			MonthNumber:        int(local.Month()),
			EmployeeID:         id,
			TotalHours:         total,
			DaysWorked:         days,
			AverageHoursPerDay: average,
		})
	}

	return views
}

// Total returns the totals row for employeeID, or 0 when the employee has
// no closed sessions.
func (v Views) Total(employeeID string) float64 {
	for _, row := range v.Totals {
		if row.EmployeeID == employeeID {
			return row.TotalHours
		}
	}
	return 0
}
