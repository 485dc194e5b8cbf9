package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SessionRecord is one row of the attendance ledger. A nil ClockOut means
// the session is still open.
type SessionRecord struct {
	Row              uint64     `gorm:"column:row_id;primaryKey;autoIncrement" json:"row"`
	EmployeeID       string     `gorm:"size:64;index;not null" json:"employeeId"`
	ClockIn          time.Time  `gorm:"not null" json:"clockIn"`
	ClockOut         *time.Time `json:"clockOut,omitempty"`
	ClockInLocation  string     `gorm:"size:512" json:"clockInLocation"`
	ClockOutLocation *string    `gorm:"size:512" json:"clockOutLocation,omitempty"`
	DurationHours    *float64   `gorm:"type:decimal(10,2)" json:"durationHours,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (SessionRecord) TableName() string {
	return "ledger"
}

// Open reports whether the session has not been clocked out yet.
func (r SessionRecord) Open() bool {
	return r.ClockOut == nil
}

// Hours returns the stored duration, or 0 for an open session.
func (r SessionRecord) Hours() float64 {
	if r.DurationHours == nil {
		return 0
	}
	return *r.DurationHours
}

func (r *SessionRecord) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(r.EmployeeID) == "" {
		return errors.New("ledger: employee id is required")
	}
	if r.ClockIn.IsZero() {
		return errors.New("ledger: clock in is required")
	}
	return nil
}
