package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	// GetByID retrieves a shift by primary key. Returns (nil, nil) when
	// the shift does not exist; a dangling shift reference is tolerated
	// and callers fall back to defaults.
	GetByID(ctx context.Context, id string) (*Shift, error)
}

type ShiftAssignmentRepository interface {
	// GetShiftForDate returns the shift assigned to the employee on the
	// given date via an active ShiftAssignment covering it. Returns
	// (nil, nil) when no assignment covers the date.
	GetShiftForDate(ctx context.Context, employeeID string, date time.Time) (*Shift, error)
}
