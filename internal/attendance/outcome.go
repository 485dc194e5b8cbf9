package attendance

import (
	"errors"
	"time"

	"timeclock-backend/internal/ledger"
	"timeclock-backend/internal/lock"
	"timeclock-backend/internal/models"
)

// TimeLayout is how timestamps appear in outcome messages.
const TimeLayout = "01/02/2006 - 15:04:05"

type Status string

const (
	StatusSuccess          Status = "success"
	StatusAlreadyClockedIn Status = "already_clocked_in"
	StatusNoOpenSession    Status = "no_open_session"
	StatusStoreUnavailable Status = "store_unavailable"
	StatusLockTimeout      Status = "lock_timeout"
	StatusInvalidInput     Status = "invalid_input"
	StatusNegativeDuration Status = "negative_duration"
	StatusDisabled         Status = "disabled"
)

var (
	ErrAlreadyClockedIn = errors.New("employee already has an open session")
	ErrNoOpenSession    = errors.New("employee has no open session")
	ErrInvalidInput     = errors.New("employee id is required")
	ErrNegativeDuration = errors.New("clock out precedes clock in")
	ErrDisabled         = errors.New("clock operation is disabled")

	ErrStoreUnavailable = ledger.ErrStoreUnavailable
	ErrLockTimeout      = lock.ErrTimeout
)

// Outcome is the single result of a clock attempt. Failed attempts still
// echo the employee id and the attempted timestamp so the caller can retry.
type Outcome struct {
	Status     Status                `json:"status"`
	Message    string                `json:"message"`
	Timestamp  time.Time             `json:"timestamp"`
	EmployeeID string                `json:"employeeId"`
	OpenSince  *time.Time            `json:"openSince,omitempty"`
	Record     *models.SessionRecord `json:"record,omitempty"`
}

// StatusOf maps an engine error to its outcome status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrAlreadyClockedIn):
		return StatusAlreadyClockedIn
	case errors.Is(err, ErrNoOpenSession), errors.Is(err, ledger.ErrRecordClosed):
		return StatusNoOpenSession
	case errors.Is(err, ErrInvalidInput):
		return StatusInvalidInput
	case errors.Is(err, ErrNegativeDuration):
		return StatusNegativeDuration
	case errors.Is(err, ErrDisabled):
		return StatusDisabled
	case errors.Is(err, ErrLockTimeout):
		return StatusLockTimeout
	default:
		return StatusStoreUnavailable
	}
}
