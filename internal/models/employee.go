package models

// Employee is one row of the employee directory.
type Employee struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	Name       string `gorm:"size:255" json:"name"`
	EmployeeID string `gorm:"size:64;uniqueIndex" json:"employeeId"`
}

func (Employee) TableName() string {
	return "directory"
}
