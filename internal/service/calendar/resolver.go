package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
	"github.com/mir-hr/attendance-backend-go/internal/domain/sysconfig"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/weekday"
)

// Resolver classifies dates as holidays and weekends per employee.
type Resolver struct {
	holidayRepo   holiday.HolidayRepository
	shiftRepo     shift.ShiftRepository
	assignRepo    shift.ShiftAssignmentRepository
	sysconfigRepo sysconfig.Repository
}

func NewResolver(
	holidayRepo holiday.HolidayRepository,
	shiftRepo shift.ShiftRepository,
	assignRepo shift.ShiftAssignmentRepository,
	sysconfigRepo sysconfig.Repository,
) *Resolver {
	return &Resolver{
		holidayRepo:   holidayRepo,
		shiftRepo:     shiftRepo,
		assignRepo:    assignRepo,
		sysconfigRepo: sysconfigRepo,
	}
}

// Resolve reports whether the date is a holiday and/or a weekend for the
// employee. The two flags are independent here; precedence between them
// is the caller's concern.
func (r *Resolver) Resolve(ctx context.Context, emp *employee.Employee, date time.Time) (bool, bool, error) {
	isHoliday, err := r.isHoliday(ctx, emp.ID, date)
	if err != nil {
		return false, false, err
	}

	days, err := r.weekendDays(ctx, emp, date)
	if err != nil {
		return false, false, err
	}

	day := weekday.FromTime(date)
	isWeekend := days.Contains(day)
	// Sunday double-check, kept from the legacy detector.
	if day == weekday.Sunday && days.Contains(weekday.Sunday) {
		isWeekend = true
	}

	return isHoliday, isWeekend, nil
}

// EffectiveWeekendDays exposes the resolved weekend-day set as plain
// ints for API responses.
func (r *Resolver) EffectiveWeekendDays(ctx context.Context, emp *employee.Employee, date time.Time) ([]int, error) {
	days, err := r.weekendDays(ctx, emp, date)
	if err != nil {
		return nil, err
	}
	return days.Ints(), nil
}

// isHoliday walks the holiday cascade: employee-specific dated entry,
// then global dated entry, then recurring month/day entry (global or
// owned by this employee).
func (r *Resolver) isHoliday(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	ok, err := r.holidayRepo.ExistsEmployeeHoliday(ctx, employeeID, date)
	if err != nil {
		return false, fmt.Errorf("check employee holiday: %w", err)
	}
	if ok {
		return true, nil
	}

	ok, err = r.holidayRepo.ExistsGlobalHoliday(ctx, date)
	if err != nil {
		return false, fmt.Errorf("check global holiday: %w", err)
	}
	if ok {
		return true, nil
	}

	ok, err = r.holidayRepo.ExistsRecurringHoliday(ctx, employeeID, date.Month(), date.Day())
	if err != nil {
		return false, fmt.Errorf("check recurring holiday: %w", err)
	}
	return ok, nil
}

// weekendDays resolves the employee's weekend-day set by precedence:
// employee override, dated shift assignment, current shift, system
// config, then Saturday/Sunday.
func (r *Resolver) weekendDays(ctx context.Context, emp *employee.Employee, date time.Time) (weekday.Set, error) {
	if !emp.WeekendDays.Empty() {
		return emp.WeekendDays, nil
	}

	assigned, err := r.assignRepo.GetShiftForDate(ctx, emp.ID, date)
	if err != nil {
		return nil, fmt.Errorf("resolve shift assignment: %w", err)
	}
	if assigned != nil && !assigned.WeekendDays.Empty() {
		return assigned.WeekendDays, nil
	}

	if emp.CurrentShiftID != nil {
		current, err := r.shiftRepo.GetByID(ctx, *emp.CurrentShiftID)
		if err == nil && current != nil && !current.WeekendDays.Empty() {
			return current.WeekendDays, nil
		}
	}

	cfg, err := r.sysconfigRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load system config: %w", err)
	}
	if cfg != nil && !cfg.WeekendDays.Empty() {
		return cfg.WeekendDays, nil
	}

	return weekday.DefaultWeekend(), nil
}
