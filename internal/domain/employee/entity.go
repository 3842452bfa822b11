package employee

import (
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/pkg/weekday"
)

type Employee struct {
	ID           string
	Name         string
	EmployeeCode string
	Email        *string
	Department   *string
	Position     *string
	Phone        *string
	JoinDate     *time.Time
	IsActive     bool

	// Shift association. CurrentShiftID is the standing assignment; dated
	// ShiftAssignment rows override it for specific periods.
	CurrentShiftID *string

	// WeekendDays is the employee-level override. nil means "not set" and
	// defers to shift or system configuration.
	WeekendDays weekday.Set

	// Per-employee overtime eligibility. These gate whether computed
	// overtime is credited, independent of any rule.
	EligibleForWeekdayOvertime bool
	EligibleForWeekendOvertime bool
	EligibleForHolidayOvertime bool

	LastSyncAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
