package shift

import (
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/pkg/weekday"
)

type Shift struct {
	ID        string
	Name      string
	StartTime time.Time
	EndTime   time.Time

	// IsOvernight marks shifts whose end time falls on the next calendar
	// day (e.g. 22:00-06:00).
	IsOvernight bool

	// BreakDuration is the default break in hours credited to this shift.
	BreakDuration float64

	// GracePeriodMinutes is the late-arrival tolerance after StartTime.
	GracePeriodMinutes int

	IsActive bool

	// WeekendDays is the shift-level weekend override. nil means the shift
	// defers to the system configuration.
	WeekendDays weekday.Set

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationHours returns the shift length in hours, accounting for
// overnight shifts that wrap past midnight.
func (s Shift) DurationHours() float64 {
	today := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(today.Year(), today.Month(), today.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), s.StartTime.Second(), 0, time.UTC)
	end := time.Date(today.Year(), today.Month(), today.Day(),
		s.EndTime.Hour(), s.EndTime.Minute(), s.EndTime.Second(), 0, time.UTC)
	if s.IsOvernight {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(start).Hours()
}

// ShiftAssignment binds an employee to a shift for a date range.
// A nil EndDate means the assignment runs indefinitely.
type ShiftAssignment struct {
	ID         string
	EmployeeID string
	ShiftID    string
	StartDate  time.Time
	EndDate    *time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
