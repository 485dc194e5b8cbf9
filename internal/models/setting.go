package models

import "time"

type Setting struct {
	Key       string    `gorm:"size:64;primaryKey" json:"key"`
	Value     string    `gorm:"size:255" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	SettingClockIn  = "ClockIn"
	SettingClockOut = "ClockOut"

	SwitchOn  = "ON"
	SwitchOff = "OFF"
)
