package ledger

import (
	"context"
	"time"

	"gorm.io/gorm"

	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
)

// GormStore keeps the ledger and the summary tables in a SQL database.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ReadAll(ctx context.Context) ([]models.SessionRecord, error) {
	var records []models.SessionRecord
	if err := s.DB.WithContext(ctx).Order("row_id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) Append(ctx context.Context, record *models.SessionRecord) error {
	return s.DB.WithContext(ctx).Create(record).Error
}

func (s *GormStore) UpdateClockOut(ctx context.Context, row uint64, clockOut time.Time, location string, duration float64) error {
	result := s.DB.WithContext(ctx).Model(&models.SessionRecord{}).
		Where("row_id = ? AND clock_out IS NULL", row).
		Updates(map[string]any{
			"clock_out":          clockOut,
			"clock_out_location": location,
			"duration_hours":     duration,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordClosed
	}
	return nil
}

// ReplaceViews clears and rewrites every summary table inside one
// transaction so readers never see a half-written view.
func (s *GormStore) ReplaceViews(ctx context.Context, views rollup.Views) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range []any{
			&models.TotalSummary{},
			&models.DailySummary{},
			&models.WeeklySummary{},
			&models.MonthlySummary{},
		} {
			if err := wipe.Delete(table).Error; err != nil {
				return err
			}
		}

		if len(views.Totals) > 0 {
			if err := tx.Create(&views.Totals).Error; err != nil {
				return err
			}
		}
		if len(views.Daily) > 0 {
			if err := tx.Create(&views.Daily).Error; err != nil {
				return err
			}
		}
		if len(views.Weekly) > 0 {
			if err := tx.Create(&views.Weekly).Error; err != nil {
				return err
			}
		}
		if len(views.Monthly) > 0 {
			if err := tx.Create(&views.Monthly).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
