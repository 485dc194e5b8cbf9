package directory

import (
	"context"
	"strings"
	"sync"

	"timeclock-backend/internal/models"
)

// MemorySource is an in-process directory for DB_DRIVER=memory and tests.
type MemorySource struct {
	mu        sync.Mutex
	employees []models.Employee
	err       error
	reads     int
}

func NewMemorySource(employees ...models.Employee) *MemorySource {
	return &MemorySource{employees: employees}
}

func (s *MemorySource) EmployeeIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]string, 0, len(s.employees))
	for _, employee := range s.employees {
		ids = append(ids, employee.EmployeeID)
	}
	return ids, nil
}

func (s *MemorySource) List(context.Context) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Employee(nil), s.employees...), nil
}

func (s *MemorySource) Add(_ context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee.Name = strings.TrimSpace(employee.Name)
	employee.EmployeeID = strings.TrimSpace(employee.EmployeeID)
	for _, existing := range s.employees {
		if existing.EmployeeID == employee.EmployeeID {
			return ErrDuplicateEmployee
		}
	}
	employee.ID = uint(len(s.employees) + 1)
	s.employees = append(s.employees, *employee)
	return nil
}

// Fail makes subsequent reads return err. Pass nil to recover.
func (s *MemorySource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Reads counts calls to EmployeeIDs.
func (s *MemorySource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
