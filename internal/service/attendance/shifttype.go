package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
)

// Classifier determines the shift type for a check-in, preferring the
// employee's assigned shift over the raw time of day.
type Classifier struct {
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
}

func NewClassifier(employeeRepo employee.EmployeeRepository, shiftRepo shift.ShiftRepository) *Classifier {
	return &Classifier{
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
	}
}

// Classify resolves the shift type for a check-in time. With an
// employee the assigned shift's name decides first, then its start
// hour; only when neither settles it does the check-in hour itself.
func (c *Classifier) Classify(ctx context.Context, checkIn *time.Time, employeeID *string) string {
	if checkIn == nil {
		return attendance.ShiftTypeUnknown
	}

	if employeeID != nil {
		if st := c.classifyByShift(ctx, *employeeID); st != "" {
			return st
		}
	}

	return classifyByHour(checkIn.Hour())
}

func (c *Classifier) classifyByShift(ctx context.Context, employeeID string) string {
	emp, err := c.employeeRepo.GetByID(ctx, employeeID)
	if err != nil || emp.CurrentShiftID == nil {
		return ""
	}

	s, err := c.shiftRepo.GetByID(ctx, *emp.CurrentShiftID)
	if err != nil || s == nil {
		return ""
	}

	name := strings.ToLower(s.Name)
	switch {
	case strings.Contains(name, "night"), strings.Contains(name, "evening"):
		return attendance.ShiftTypeNight
	case strings.Contains(name, "day"), strings.Contains(name, "morning"):
		return attendance.ShiftTypeDay
	}

	// 17:00 through 04:59 starts count as night.
	hour := s.StartTime.Hour()
	if hour >= 17 || hour < 5 {
		return attendance.ShiftTypeNight
	}
	return attendance.ShiftTypeDay
}

func classifyByHour(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return attendance.ShiftTypeDay
	case hour >= 12 && hour < 18:
		return attendance.ShiftTypeAfternoon
	default:
		return attendance.ShiftTypeNight
	}
}
