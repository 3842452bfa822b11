package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
)

// Standard-hours defaults. Records without a linked shift only accrue
// overtime beyond twelve hours; a linked shift whose duration cannot be
// resolved falls back to eight. The two defaults are intentionally
// different and mirror long-standing payroll behavior.
const (
	standardHoursNoShift   = 12.0
	standardHoursShiftless = 8.0
	defaultMaxDailyOT      = 4.0
)

// Engine computes and credits overtime on reconciled attendance
// records, categorizing hours into regular, weekend and holiday buckets
// and pricing them with the selected rule's multipliers.
type Engine struct {
	recordRepo   attendance.AttendanceRecordRepository
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
	ruleRepo     overtime.OvertimeRuleRepository
	calendar     attendance.CalendarResolver
	selector     *RuleSelector

	// applyNightDifferential blends the night-shift multiplier into the
	// rate. Off by default; the differential is modeled but has never
	// been switched on in production.
	applyNightDifferential bool
}

func NewEngine(
	recordRepo attendance.AttendanceRecordRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	ruleRepo overtime.OvertimeRuleRepository,
	calendar attendance.CalendarResolver,
	selector *RuleSelector,
	applyNightDifferential bool,
) *Engine {
	return &Engine{
		recordRepo:             recordRepo,
		employeeRepo:           employeeRepo,
		shiftRepo:              shiftRepo,
		ruleRepo:               ruleRepo,
		calendar:               calendar,
		selector:               selector,
		applyNightDifferential: applyNightDifferential,
	}
}

// Calculate implements overtime.EngineService. The record is mutated in
// place; persistence is the caller's job.
func (e *Engine) Calculate(ctx context.Context, record *attendance.AttendanceRecord, forceRecalc bool) (*overtime.Calculation, error) {
	if record.CheckIn == nil || record.CheckOut == nil {
		return &overtime.Calculation{OvertimeRate: 1.0}, nil
	}

	if record.OvertimeHours > 0 && record.OvertimeRate > 1.0 && !forceRecalc {
		return calculationFrom(record), nil
	}

	if record.WorkHours <= 0 || forceRecalc {
		record.CalculateWorkHours()
	}

	emp, err := e.employeeRepo.GetByID(ctx, record.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}

	// Flags are refreshed on every compute so stale records converge.
	isHoliday, isWeekend, err := e.calendar.Resolve(ctx, &emp, record.Date)
	if err != nil {
		return nil, fmt.Errorf("resolve calendar: %w", err)
	}
	record.IsHoliday = isHoliday
	record.IsWeekend = isWeekend

	standardHours := e.resolveStandardHours(ctx, record)

	var rawOvertime float64
	if isWeekend || isHoliday {
		// Non-working days: every worked hour is overtime.
		rawOvertime = record.WorkHours
	} else {
		if record.WorkHours <= standardHours {
			resetOvertime(record)
			return calculationFrom(record), nil
		}
		rawOvertime = record.WorkHours - standardHours
	}

	rule, err := e.resolveRule(ctx, &emp, record)
	if err != nil {
		return nil, err
	}

	record.RegularOvertimeHours = 0
	record.WeekendOvertimeHours = 0
	record.HolidayOvertimeHours = 0
	record.OvertimeNightHours = 0
	isNightShift := record.ShiftType == attendance.ShiftTypeNight

	if rule != nil {
		rate := rule.Multiplier(isHoliday, isWeekend)
		if e.applyNightDifferential {
			rate = rule.NightShiftDifferential(*record.CheckIn, *record.CheckOut, rate)
		}

		maxDaily := rule.MaxDailyOvertime
		if maxDaily <= 0 {
			maxDaily = defaultMaxDailyOT
		}
		capped := math.Min(rawOvertime, maxDaily)

		if isNightShift {
			record.OvertimeNightHours = capped
		}

		// A day-type whose apply_on flag is off earns nothing, even
		// though the hours were worked.
		switch {
		case isHoliday && rule.ApplyOnHoliday:
			record.HolidayOvertimeHours = capped
		case isWeekend && rule.ApplyOnWeekend:
			record.WeekendOvertimeHours = capped
		case !isHoliday && !isWeekend && rule.ApplyOnWeekday:
			record.RegularOvertimeHours = capped
		}

		record.OvertimeRate = rate
	} else {
		// Default path: weekend/holiday overtime pays 1.0, weekday
		// overtime carries no configured premium at all.
		defaultRate := 0.0
		if isWeekend || isHoliday {
			defaultRate = 1.0
		}

		var credited float64
		switch {
		case isHoliday:
			if emp.EligibleForHolidayOvertime {
				record.HolidayOvertimeHours = rawOvertime
				credited = rawOvertime
			}
		case isWeekend:
			if emp.EligibleForWeekendOvertime {
				record.WeekendOvertimeHours = rawOvertime
				credited = rawOvertime
			}
		default:
			if emp.EligibleForWeekdayOvertime {
				record.RegularOvertimeHours = rawOvertime
				credited = rawOvertime
			}
		}

		if isNightShift && credited > 0 {
			record.OvertimeNightHours = credited
		}
		record.OvertimeRate = defaultRate
	}

	record.OvertimeHours = record.RegularOvertimeHours +
		record.WeekendOvertimeHours + record.HolidayOvertimeHours
	record.OvertimeWeighted = record.OvertimeHours * record.OvertimeRate

	return calculationFrom(record), nil
}

// ProcessRecord implements overtime.EngineService: calculate and
// persist in one step.
func (e *Engine) ProcessRecord(ctx context.Context, record *attendance.AttendanceRecord, forceRecalc bool) error {
	if _, err := e.Calculate(ctx, record, forceRecalc); err != nil {
		return err
	}
	if err := e.recordRepo.Update(ctx, nil, record); err != nil {
		return fmt.Errorf("persist overtime on record %s: %w", record.ID, err)
	}
	return nil
}

// ProcessRecords implements overtime.EngineService. A failure on one
// record is logged and counted, never aborts the rest.
func (e *Engine) ProcessRecords(ctx context.Context, req *overtime.RecalculateRequest) (*overtime.RecalculateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.Period()

	records, err := e.recordRepo.ListForRecalculation(ctx, req.EmployeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list records for recalculation: %w", err)
	}

	return e.processBatch(ctx, records, req.Force), nil
}

// RecalculateHolidayOvertime forces a fresh pass over holiday records,
// typically after the holiday table changed.
func (e *Engine) RecalculateHolidayOvertime(ctx context.Context, req *overtime.RecalculateRequest) (*overtime.RecalculateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end := req.Period()

	records, err := e.recordRepo.ListHolidayRecords(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list holiday records: %w", err)
	}

	return e.processBatch(ctx, records, true), nil
}

func (e *Engine) processBatch(ctx context.Context, records []attendance.AttendanceRecord, force bool) *overtime.RecalculateResult {
	result := &overtime.RecalculateResult{}
	for i := range records {
		record := &records[i]
		result.ProcessedRecords++

		if record.CheckIn == nil || record.CheckOut == nil {
			result.SkippedRecords++
			continue
		}

		if err := e.ProcessRecord(ctx, record, force); err != nil {
			slog.Error("Overtime recalculation failed",
				"record_id", record.ID,
				"employee_id", record.EmployeeID,
				"date", record.Date.Format("2006-01-02"),
				"error", err)
			result.SkippedRecords++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", record.ID, err))
			continue
		}
		result.UpdatedRecords++
	}
	return result
}

// resolveStandardHours decides how many hours count as a normal day.
// Linked shift: its duration; shift gone missing: eight; no shift at
// all: twelve. It also corrects the shift type when the shift's name
// contradicts it.
func (e *Engine) resolveStandardHours(ctx context.Context, record *attendance.AttendanceRecord) float64 {
	if record.ShiftID == nil {
		return standardHoursNoShift
	}

	sh, err := e.shiftRepo.GetByID(ctx, *record.ShiftID)
	if err != nil || sh == nil {
		return standardHoursShiftless
	}

	name := strings.ToLower(sh.Name)
	if strings.Contains(name, "night") {
		record.ShiftType = attendance.ShiftTypeNight
	} else if strings.Contains(name, "day") {
		record.ShiftType = attendance.ShiftTypeDay
	}

	if d := sh.DurationHours(); d > 0 {
		return d
	}
	return standardHoursShiftless
}

// resolveRule loads the pinned rule or selects and pins a fresh one.
// The pin keeps historical payroll figures stable against later rule
// edits.
func (e *Engine) resolveRule(ctx context.Context, emp *employee.Employee, record *attendance.AttendanceRecord) (*overtime.OvertimeRule, error) {
	if record.OvertimeRuleID != nil {
		rule, err := e.ruleRepo.GetByID(ctx, *record.OvertimeRuleID)
		if err != nil {
			if errors.Is(err, overtime.ErrRuleNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("load pinned overtime rule: %w", err)
		}
		return rule, nil
	}

	rule, err := e.selector.Select(ctx, emp, record.Date)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		record.OvertimeRuleID = &rule.ID
	}
	return rule, nil
}

func resetOvertime(record *attendance.AttendanceRecord) {
	record.OvertimeHours = 0
	record.OvertimeRate = 1.0
	record.RegularOvertimeHours = 0
	record.WeekendOvertimeHours = 0
	record.HolidayOvertimeHours = 0
	record.OvertimeNightHours = 0
	record.OvertimeWeighted = 0
}

func calculationFrom(record *attendance.AttendanceRecord) *overtime.Calculation {
	return &overtime.Calculation{
		OvertimeHours:        record.OvertimeHours,
		OvertimeRate:         record.OvertimeRate,
		RegularOvertimeHours: record.RegularOvertimeHours,
		WeekendOvertimeHours: record.WeekendOvertimeHours,
		HolidayOvertimeHours: record.HolidayOvertimeHours,
		OvertimeNightHours:   record.OvertimeNightHours,
		RuleID:               record.OvertimeRuleID,
	}
}
