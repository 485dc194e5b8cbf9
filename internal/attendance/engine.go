// Package attendance implements clock-in and clock-out against the ledger.
//
// Each operation for one employee runs inside that employee's lock, from
// the snapshot read to the single write, so at most one session per
// employee is ever open. The summary views are recomputed after the lock
// is released; a failed recompute is logged and never turns a durable
// clock event into a reported failure.
package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/geo"
	"timeclock-backend/internal/lock"
	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
	"timeclock-backend/internal/settings"
)

// Ledger is the slice of ledger.Ledger the engine needs.
type Ledger interface {
	ReadAll(ctx context.Context) ([]models.SessionRecord, error)
	Append(ctx context.Context, record *models.SessionRecord) error
	UpdateClockOut(ctx context.Context, row uint64, clockOut time.Time, location string, duration float64) error
}

type Recomputer interface {
	Publish(ctx context.Context) (rollup.Views, error)
}

type Deps struct {
	Ledger   Ledger
	Locker   lock.Locker
	Geocoder geo.Resolver
	Rollups  Recomputer
	Settings settings.Store
	Clock    clock.Clock
	Location *time.Location
	Logger   *slog.Logger
}

type Engine struct {
	ledger   Ledger
	locker   lock.Locker
	geocoder geo.Resolver
	rollups  Recomputer
	settings settings.Store
	clock    clock.Clock
	location *time.Location
	logger   *slog.Logger
}

func NewEngine(deps Deps) *Engine {
	e := &Engine{
		ledger:   deps.Ledger,
		locker:   deps.Locker,
		geocoder: deps.Geocoder,
		rollups:  deps.Rollups,
		settings: deps.Settings,
		clock:    deps.Clock,
		location: deps.Location,
		logger:   deps.Logger,
	}
	if e.clock == nil {
		e.clock = clock.Real()
	}
	if e.location == nil {
		e.location = time.Local
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// FormatTime renders t in the engine's time zone using TimeLayout.
func (e *Engine) FormatTime(t time.Time) string {
	return t.In(e.location).Format(TimeLayout)
}

// ClockIn opens a session for employeeID unless one is already open.
func (e *Engine) ClockIn(ctx context.Context, employeeID string, coords *geo.Coordinates) (Outcome, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return e.fail(ctx, employeeID, e.clock.Now(), ErrInvalidInput)
	}
	if !e.enabled(ctx, func(s settings.Switches) bool { return s.ClockIn }) {
		return e.fail(ctx, employeeID, e.clock.Now(), fmt.Errorf("clock in: %w", ErrDisabled))
	}

	location := geo.Locate(ctx, e.geocoder, coords, e.logger.With("employee_id", employeeID))

	var outcome Outcome
	err := e.serialize(ctx, employeeID, func(now time.Time) error {
		records, err := e.ledger.ReadAll(ctx)
		if err != nil {
			return err
		}

		if _, open, found := LatestOpen(records, employeeID); found {
			since := open.ClockIn
			outcome = Outcome{
				Status:     StatusAlreadyClockedIn,
				Message:    fmt.Sprintf("Already clocked in at %s. Clock out first.", e.FormatTime(since)),
				Timestamp:  now,
				EmployeeID: employeeID,
				OpenSince:  &since,
			}
			return ErrAlreadyClockedIn
		}

		record := models.SessionRecord{
			EmployeeID:      employeeID,
			ClockIn:         now,
			ClockInLocation: location,
		}
		if err := e.ledger.Append(ctx, &record); err != nil {
			return err
		}
		outcome = Outcome{
			Status:     StatusSuccess,
			Message:    "SUCCESS",
			Timestamp:  now,
			EmployeeID: employeeID,
			Record:     &record,
		}
		return nil
	})
	if err != nil {
		if outcome.Status != "" {
			return outcome, err
		}
		return e.fail(ctx, employeeID, e.clock.Now(), err)
	}

	e.logger.InfoContext(ctx, "clocked in",
		"employee_id", employeeID,
		"row", outcome.Record.Row,
		"location", location,
	)
	e.recompute(ctx)
	return outcome, nil
}

// ClockOut closes the most recent open session of employeeID.
func (e *Engine) ClockOut(ctx context.Context, employeeID string, coords *geo.Coordinates) (Outcome, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return e.fail(ctx, employeeID, e.clock.Now(), ErrInvalidInput)
	}
	if !e.enabled(ctx, func(s settings.Switches) bool { return s.ClockOut }) {
		return e.fail(ctx, employeeID, e.clock.Now(), fmt.Errorf("clock out: %w", ErrDisabled))
	}

	location := geo.Locate(ctx, e.geocoder, coords, e.logger.With("employee_id", employeeID))

	var outcome Outcome
	err := e.serialize(ctx, employeeID, func(now time.Time) error {
		records, err := e.ledger.ReadAll(ctx)
		if err != nil {
			return err
		}

		_, open, found := LatestOpen(records, employeeID)
		if !found {
			return ErrNoOpenSession
		}
		if now.Before(open.ClockIn) {
			return fmt.Errorf("%w: clock in %s, clock out %s", ErrNegativeDuration,
				e.FormatTime(open.ClockIn), e.FormatTime(now))
		}

		duration := rollup.DurationHours(open.ClockIn, now)
		if err := e.ledger.UpdateClockOut(ctx, open.Row, now, location, duration); err != nil {
			return err
		}

		closed := open
		closed.ClockOut = &now
		closed.ClockOutLocation = &location
		closed.DurationHours = &duration
		outcome = Outcome{
			Status:     StatusSuccess,
			Message:    "SUCCESS",
			Timestamp:  now,
			EmployeeID: employeeID,
			Record:     &closed,
		}
		return nil
	})
	if err != nil {
		return e.fail(ctx, employeeID, e.clock.Now(), err)
	}

	e.logger.InfoContext(ctx, "clocked out",
		"employee_id", employeeID,
		"row", outcome.Record.Row,
		"duration_hours", *outcome.Record.DurationHours,
		"location", location,
	)
	e.recompute(ctx)
	return outcome, nil
}

// Reject reports a clock request whose body could not be read. The outcome
// carries the attempted timestamp like any other failure.
func (e *Engine) Reject(ctx context.Context, employeeID string) (Outcome, error) {
	return e.fail(ctx, strings.TrimSpace(employeeID), e.clock.Now(), ErrInvalidInput)
}

// LatestOpen scans records from the newest backwards and returns the first
// open session of employeeID with its index. Older open sessions for the
// same employee, if any, are ignored.
func LatestOpen(records []models.SessionRecord, employeeID string) (int, models.SessionRecord, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].EmployeeID == employeeID && records[i].Open() {
			return i, records[i], true
		}
	}
	return -1, models.SessionRecord{}, false
}

// serialize runs fn under the employee's lock. fn receives the time at
// which the lock was obtained.
func (e *Engine) serialize(ctx context.Context, employeeID string, fn func(now time.Time) error) error {
	release, err := e.locker.Acquire(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("lock employee %s: %w", employeeID, err)
	}
	defer release()
	return fn(e.clock.Now())
}

func (e *Engine) enabled(ctx context.Context, pick func(settings.Switches) bool) bool {
	if e.settings == nil {
		return true
	}
	switches, err := e.settings.Switches(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "reading clock switches failed, assuming enabled", "error", err)
		return true
	}
	return pick(switches)
}

func (e *Engine) recompute(ctx context.Context) {
	if e.rollups == nil {
		return
	}
	if _, err := e.rollups.Publish(context.WithoutCancel(ctx)); err != nil {
		e.logger.WarnContext(ctx, "summary recompute failed", "error", err)
	}
}

func (e *Engine) fail(ctx context.Context, employeeID string, attempted time.Time, err error) (Outcome, error) {
	status := StatusOf(err)
	outcome := Outcome{
		Status:     status,
		Message:    message(status, err),
		Timestamp:  attempted,
		EmployeeID: employeeID,
	}
	if status == StatusStoreUnavailable || status == StatusLockTimeout {
		e.logger.ErrorContext(ctx, "clock operation failed",
			"employee_id", employeeID,
			"status", string(status),
			"error", err,
		)
	}
	return outcome, err
}

func message(status Status, err error) string {
	switch status {
	case StatusNoOpenSession:
		return "No open session found. Clock in first."
	case StatusInvalidInput:
		return "Employee ID is required."
	case StatusDisabled:
		return "This clock operation is currently turned off."
	case StatusNegativeDuration:
		return "Clock out time is earlier than clock in time: " + err.Error()
	case StatusLockTimeout:
		return "Another clock request for this employee is still in progress. Please try again."
	case StatusStoreUnavailable:
		return "Attendance store is unavailable. Please try again."
	}
	return err.Error()
}
