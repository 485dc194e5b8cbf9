package models

import "time"

// The summary tables are derived from the ledger. They are cleared and
// rewritten on every recompute and carry no state of their own.

type TotalSummary struct {
	EmployeeID string  `gorm:"size:64;primaryKey" json:"employeeId"`
	TotalHours float64 `gorm:"type:decimal(12,2)" json:"totalHours"`
}

func (TotalSummary) TableName() string {
	return "totals"
}

const (
	DailyStatusComplete    = "Complete"
	DailyStatusClockInOnly = "Clock In Only"
)

type DailySummary struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	Date       time.Time  `gorm:"type:date;index" json:"date"`
	EmployeeID string     `gorm:"size:64;index" json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	TotalHours float64    `gorm:"type:decimal(10,2)" json:"totalHours"`
	Status     string     `gorm:"size:32" json:"status"`
}

func (DailySummary) TableName() string {
	return "daily"
}

type WeeklySummary struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	WeekStarting       time.Time `gorm:"type:date;index" json:"weekStarting"`
	EmployeeID         string    `gorm:"size:64;index" json:"employeeId"`
	TotalHours         float64   `gorm:"type:decimal(12,2)" json:"totalHours"`
	DaysWorked         int       `json:"daysWorked"`
	AverageHoursPerDay float64   `gorm:"type:decimal(10,2)" json:"averageHoursPerDay"`
}

func (WeeklySummary) TableName() string {
	return "weekly"
}

type MonthlySummary struct {
	ID                 uint    `gorm:"primaryKey" json:"-"`
	Month              string  `gorm:"size:32" json:"month"`
	Year               int     `gorm:"index" json:"year"`
	MonthNumber        int     `json:"monthNumber"`
	EmployeeID         string  `gorm:"size:64;index" json:"employeeId"`
	TotalHours         float64 `gorm:"type:decimal(12,2)" json:"totalHours"`
	DaysWorked         int     `json:"daysWorked"`
	AverageHoursPerDay float64 `gorm:"type:decimal(10,2)" json:"averageHoursPerDay"`
}

func (MonthlySummary) TableName() string {
	return "monthly"
}
