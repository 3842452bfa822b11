package employee

import (
	"context"
)

type EmployeeRepository interface {
	// GetByID retrieves an employee by primary key.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByCode retrieves an employee by their badge/device code.
	GetByCode(ctx context.Context, code string) (Employee, error)

	// ListByIDs retrieves a batch of employees, used by the reconciler to
	// synthesize absent records for a date range.
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)

	// ListActive retrieves all active employees.
	ListActive(ctx context.Context) ([]Employee, error)
}
