// Package status answers read-only questions about the ledger for the
// presentation layer.
package status

import (
	"context"
	"fmt"
	"time"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
)

const (
	ClockedIn  = "clocked_in"
	ClockedOut = "clocked_out"
	NoRecords  = "no_records"
)

const timeLayout = "01/02/2006 - 15:04:05"

type Snapshotter interface {
	ReadAll(ctx context.Context) ([]models.SessionRecord, error)
}

type EmployeeStatus struct {
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	LastClockIn  *time.Time `json:"lastClockIn,omitempty"`
	LastClockOut *time.Time `json:"lastClockOut,omitempty"`
	TotalHours   *float64   `json:"totalHours,omitempty"`
}

type Stats struct {
	TotalRecords    int       `json:"totalRecords"`
	TodayRecords    int       `json:"todayRecords"`
	ActiveEmployees int       `json:"activeEmployees"`
	LastUpdate      time.Time `json:"lastUpdate"`
}

type Reader struct {
	ledger   Snapshotter
	clock    clock.Clock
	location *time.Location
}

func NewReader(ledger Snapshotter, clk clock.Clock, loc *time.Location) *Reader {
	if clk == nil {
		clk = clock.Real()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Reader{ledger: ledger, clock: clk, location: loc}
}

// EmployeeStatus describes the most recent record of employeeID.
func (r *Reader) EmployeeStatus(ctx context.Context, employeeID string) (EmployeeStatus, error) {
	records, err := r.ledger.ReadAll(ctx)
	if err != nil {
		return EmployeeStatus{}, err
	}

	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if record.EmployeeID != employeeID {
			continue
		}

		clockIn := record.ClockIn
		if record.Open() {
			zero := 0.0
			return EmployeeStatus{
				Status:      ClockedIn,
				Message:     "Currently clocked in since " + r.format(clockIn),
				LastClockIn: &clockIn,
				TotalHours:  &zero,
			}, nil
		}

		clockOut := *record.ClockOut
		hours := record.Hours()
		return EmployeeStatus{
			Status:       ClockedOut,
			Message:      "Last clocked out at " + r.format(clockOut),
			LastClockIn:  &clockIn,
			LastClockOut: &clockOut,
			TotalHours:   &hours,
		}, nil
	}

	return EmployeeStatus{
		Status:  NoRecords,
		Message: fmt.Sprintf("No attendance records found for employee %s", employeeID),
	}, nil
}

// GlobalStats counts ledger rows, rows clocked in today and distinct
// employees.
func (r *Reader) GlobalStats(ctx context.Context) (Stats, error) {
	now := r.clock.Now()
	stats := Stats{LastUpdate: now}

	records, err := r.ledger.ReadAll(ctx)
	if err != nil {
		return stats, err
	}

	today := rollup.Day(now, r.location)
	employees := map[string]struct{}{}
	for _, record := range records {
		stats.TotalRecords++
		if rollup.Day(record.ClockIn, r.location).Equal(today) {
			stats.TodayRecords++
		}
		if record.EmployeeID != "" {
			employees[record.EmployeeID] = struct{}{}
		}
	}
	stats.ActiveEmployees = len(employees)
	return stats, nil
}

func (r *Reader) format(t time.Time) string {
	return t.In(r.location).Format(timeLayout)
}
