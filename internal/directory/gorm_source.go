package directory

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"timeclock-backend/internal/models"
)

// ErrDuplicateEmployee reports an employee id that is already in the
// directory.
var ErrDuplicateEmployee = errors.New("employee id already exists")

// GormSource reads the directory table.
type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{DB: db}
}

func (s *GormSource) EmployeeIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.DB.WithContext(ctx).Model(&models.Employee{}).Order("id asc").Pluck("employee_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormSource) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *GormSource) Add(ctx context.Context, employee *models.Employee) error {
	employee.Name = strings.TrimSpace(employee.Name)
	employee.EmployeeID = strings.TrimSpace(employee.EmployeeID)
	err := s.DB.WithContext(ctx).Create(employee).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmployee
	}
	return err
}
