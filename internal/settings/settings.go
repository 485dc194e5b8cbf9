// Package settings stores the ClockIn/ClockOut switches. A switch that has
// never been written is ON.
package settings

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gorm.io/gorm"

	"timeclock-backend/internal/models"
)

type Switches struct {
	ClockIn  bool
	ClockOut bool
}

func Defaults() Switches {
	return Switches{ClockIn: true, ClockOut: true}
}

// Labels renders the switches the way they are stored, ON or OFF.
func (s Switches) Labels() map[string]string {
	return map[string]string{
		models.SettingClockIn:  label(s.ClockIn),
		models.SettingClockOut: label(s.ClockOut),
	}
}

func label(on bool) string {
	if on {
		return models.SwitchOn
	}
	return models.SwitchOff
}

// ParseSwitch accepts ON/OFF in any case.
func ParseSwitch(value string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case models.SwitchOn:
		return true, true
	case models.SwitchOff:
		return false, true
	}
	return false, false
}

type Store interface {
	Switches(ctx context.Context) (Switches, error)
	SetSwitches(ctx context.Context, switches Switches) error
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Switches(ctx context.Context) (Switches, error) {
	switches := Defaults()

	var rows []models.Setting
	if err := s.DB.WithContext(ctx).
		Where(map[string]any{"key": []string{models.SettingClockIn, models.SettingClockOut}}).
		Find(&rows).Error; err != nil {
		return switches, err
	}

	for _, row := range rows {
		on, ok := ParseSwitch(row.Value)
		if !ok {
			continue
		}
		switch row.Key {
		case models.SettingClockIn:
			switches.ClockIn = on
		case models.SettingClockOut:
			switches.ClockOut = on
		}
	}
	return switches, nil
}

func (s *GormStore) SetSwitches(ctx context.Context, switches Switches) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range switches.Labels() {
			var setting models.Setting
			err := tx.Where(&models.Setting{Key: key}).Take(&setting).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			setting.Value = value
			if err := tx.Save(&setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type MemoryStore struct {
	mu       sync.Mutex
	switches Switches
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{switches: Defaults()}
}

func (m *MemoryStore) Switches(context.Context) (Switches, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.switches, nil
}

func (m *MemoryStore) SetSwitches(_ context.Context, switches Switches) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.switches = switches
	return nil
}
