// Package export renders the ledger and its summary views as an .xlsx
// workbook with one sheet per table.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
)

const (
	SheetLedger  = "MAIN"
	SheetDaily   = "DAILY SUMMARY"
	SheetWeekly  = "WEEKLY SUMMARY"
	SheetMonthly = "MONTHLY SUMMARY"
	SheetTotals  = "TOTALS"

	dateLayout = "01/02/2006"
	timeLayout = "01/02/2006 - 15:04:05"
)

var headers = map[string][]any{
	SheetLedger:  {"Employee ID", "Clock In", "Clock Out", "Clock In Location", "Clock Out Location", "Total Hours"},
	SheetDaily:   {"Date", "Employee ID", "Clock In", "Clock Out", "Total Hours", "Status"},
	SheetWeekly:  {"Week Starting", "Employee ID", "Total Hours", "Days Worked", "Average Hours/Day"},
	SheetMonthly: {"Month/Year", "Employee ID", "Total Hours", "Days Worked", "Average Hours/Day"},
	SheetTotals:  {"Employee Summary", "Total Hours"},
}

var sheetOrder = []string{SheetLedger, SheetDaily, SheetWeekly, SheetMonthly, SheetTotals}

// Workbook builds the workbook. The caller owns the returned file and must
// Close it.
func Workbook(records []models.SessionRecord, views rollup.Views, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.Local
	}
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, sheet := range sheetOrder {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := setRow(f, sheet, 1, headers[sheet]); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	stamp := func(t time.Time) string { return t.In(loc).Format(timeLayout) }
	day := func(t time.Time) string { return t.In(loc).Format(dateLayout) }

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		clockOut, outLocation, hours := "", "", any("")
		if r.ClockOut != nil {
			clockOut = stamp(*r.ClockOut)
		}
		if r.ClockOutLocation != nil {
			outLocation = *r.ClockOutLocation
		}
		if r.DurationHours != nil {
			hours = *r.DurationHours
		}
		rows = append(rows, []any{r.EmployeeID, stamp(r.ClockIn), clockOut, r.ClockInLocation, outLocation, hours})
	}
	if err := setRows(f, SheetLedger, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, r := range views.Daily {
		clockOut := "Not clocked out"
		if r.ClockOut != nil {
			clockOut = stamp(*r.ClockOut)
		}
		rows = append(rows, []any{day(r.Date), r.EmployeeID, stamp(r.ClockIn), clockOut, r.TotalHours, r.Status})
	}
	if err := setRows(f, SheetDaily, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, r := range views.Weekly {
		rows = append(rows, []any{day(r.WeekStarting), r.EmployeeID, r.TotalHours, r.DaysWorked, r.AverageHoursPerDay})
	}
	if err := setRows(f, SheetWeekly, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, r := range views.Monthly {
		rows = append(rows, []any{r.Month, r.EmployeeID, r.TotalHours, r.DaysWorked, r.AverageHoursPerDay})
	}
	if err := setRows(f, SheetMonthly, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, r := range views.Totals {
		rows = append(rows, []any{r.EmployeeID, r.TotalHours})
	}
	if err := setRows(f, SheetTotals, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, records []models.SessionRecord, views rollup.Views, loc *time.Location) error {
	f, err := Workbook(records, views, loc)
	if err != nil {
		return fmt.Errorf("export: build workbook: %w", err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
