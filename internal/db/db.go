package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timeclock-backend/internal/models"
)

// Open connects with the given driver (mysql or postgres) and migrates
// every table the service owns.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.SessionRecord{},
		&models.Employee{},
		&models.Setting{},
		&models.TotalSummary{},
		&models.DailySummary{},
		&models.WeeklySummary{},
		&models.MonthlySummary{},
	)
}

// Close releases the underlying connection pool.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
