package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ExistsEmployeeHoliday reports whether an employee-specific holiday
	// exists on the given date.
	ExistsEmployeeHoliday(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// ExistsGlobalHoliday reports whether a non-employee-specific holiday
	// exists on the given date.
	ExistsGlobalHoliday(ctx context.Context, date time.Time) (bool, error)

	// ExistsRecurringHoliday reports whether a recurring holiday matches
	// the given (month, day), scoped globally or to the employee.
	ExistsRecurringHoliday(ctx context.Context, employeeID string, month time.Month, day int) (bool, error)
}
