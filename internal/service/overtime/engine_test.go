package overtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
)

func strptr(s string) *string { return &s }

// testRecord builds a reconciled record with punches on the date and a
// one-hour calculated break.
func testRecord(date time.Time, inHour, outHour int) *attendance.AttendanceRecord {
	checkIn := time.Date(date.Year(), date.Month(), date.Day(), inHour, 0, 0, 0, time.UTC)
	checkOut := time.Date(date.Year(), date.Month(), date.Day(), outHour, 0, 0, 0, time.UTC)
	return &attendance.AttendanceRecord{
		ID:              "rec-1",
		EmployeeID:      "emp-1",
		Date:            date,
		CheckIn:         &checkIn,
		CheckOut:        &checkOut,
		Status:          attendance.StatusPresent,
		BreakDuration:   1.0,
		BreakCalculated: true,
		TotalDuration:   float64(outHour - inHour),
	}
}

type engineFixture struct {
	engine   *Engine
	records  *fakeRecordRepo
	shifts   *fakeShiftRepo
	rules    *fakeRuleRepo
	calendar *fakeCalendar
}

func newEngineFixture(emp employee.Employee, rules []overtime.OvertimeRule, shifts map[string]shift.Shift) *engineFixture {
	recordRepo := newFakeRecordRepo()
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp}}
	shiftRepo := &fakeShiftRepo{shifts: shifts}
	ruleRepo := &fakeRuleRepo{rules: rules}
	calendar := &fakeCalendar{holidays: map[string]bool{}, weekends: map[string]bool{}}
	selector := NewRuleSelector(ruleRepo)

	return &engineFixture{
		engine:   NewEngine(recordRepo, employeeRepo, shiftRepo, ruleRepo, calendar, selector, false),
		records:  recordRepo,
		shifts:   shiftRepo,
		rules:    ruleRepo,
		calendar: calendar,
	}
}

func assertBucketInvariant(t *testing.T, r *attendance.AttendanceRecord) {
	t.Helper()
	assert.InDelta(t, r.OvertimeHours,
		r.RegularOvertimeHours+r.WeekendOvertimeHours+r.HolidayOvertimeHours, 0.0001)
	assert.InDelta(t, r.OvertimeWeighted, r.OvertimeHours*r.OvertimeRate, 0.0001)
}

func TestCalculateMissingPunches(t *testing.T) {
	fx := newEngineFixture(employee.Employee{ID: "emp-1"}, nil, nil)

	record := &attendance.AttendanceRecord{ID: "rec-1", EmployeeID: "emp-1", Status: attendance.StatusAbsent}
	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)
	assert.Zero(t, calc.OvertimeHours)
	assert.Equal(t, 1.0, calc.OvertimeRate)
}

func TestCalculateCachedResultShortCircuits(t *testing.T) {
	// Empty employee repo: any lookup would fail, proving the cached
	// figures are returned without recomputation.
	fx := newEngineFixture(employee.Employee{ID: "other"}, nil, nil)

	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	record := testRecord(tuesday, 9, 19)
	record.WorkHours = 9
	record.OvertimeHours = 2
	record.OvertimeRate = 1.5
	record.RegularOvertimeHours = 2
	record.OvertimeWeighted = 3

	calc, err := fx.engine.Calculate(context.Background(), record, false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, calc.OvertimeHours)
	assert.Equal(t, 1.5, calc.OvertimeRate)

	_, err = fx.engine.Calculate(context.Background(), record, true)
	assert.Error(t, err, "force bypasses the cache and hits the repo")
}

func TestCalculateWeekdayOvertimeWithRule(t *testing.T) {
	shiftID := "shift-day"
	emp := employee.Employee{ID: "emp-1", Department: strptr("Engineering"), CurrentShiftID: &shiftID}
	rule := overtime.OvertimeRule{
		ID:                "rule-1",
		Name:              "Standard OT",
		ApplyOnWeekday:    true,
		ApplyOnWeekend:    true,
		ApplyOnHoliday:    true,
		WeekdayMultiplier: 1.5,
		WeekendMultiplier: 2.0,
		HolidayMultiplier: 2.5,
		MaxDailyOvertime:  4.0,
		IsActive:          true,
	}
	shifts := map[string]shift.Shift{shiftID: {
		ID:        shiftID,
		Name:      "Day Shift",
		StartTime: time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2000, 1, 1, 17, 0, 0, 0, time.UTC),
	}}
	fx := newEngineFixture(emp, []overtime.OvertimeRule{rule}, shifts)

	// Tuesday: 09:00-19:00 with a one-hour lunch is nine worked hours
	// against an eight-hour shift.
	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	record := testRecord(tuesday, 9, 19)
	record.ShiftID = &shiftID

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)

	assert.InDelta(t, 9.0, record.WorkHours, 0.0001)
	assert.InDelta(t, 1.0, calc.RegularOvertimeHours, 0.0001)
	assert.InDelta(t, 1.0, calc.OvertimeHours, 0.0001)
	assert.Equal(t, 1.5, calc.OvertimeRate)
	assert.InDelta(t, 1.5, record.OvertimeWeighted, 0.0001)
	require.NotNil(t, record.OvertimeRuleID)
	assert.Equal(t, "rule-1", *record.OvertimeRuleID, "matched rule is pinned")
	assertBucketInvariant(t, record)
}

func TestCalculateHolidayAllHoursAreOvertime(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", Department: strptr("Engineering")}
	rule := overtime.OvertimeRule{
		ID:                "rule-1",
		ApplyOnHoliday:    true,
		HolidayMultiplier: 2.5,
		MaxDailyOvertime:  8.0,
		IsActive:          true,
	}
	fx := newEngineFixture(emp, []overtime.OvertimeRule{rule}, nil)

	holiday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	fx.calendar.holidays["2025-06-10"] = true

	// Six worked hours on a public holiday.
	record := testRecord(holiday, 9, 16)

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)

	assert.True(t, record.IsHoliday)
	assert.InDelta(t, 6.0, calc.HolidayOvertimeHours, 0.0001)
	assert.InDelta(t, 6.0, calc.OvertimeHours, 0.0001)
	assert.Equal(t, 2.5, calc.OvertimeRate)
	assert.InDelta(t, 15.0, record.OvertimeWeighted, 0.0001)
	assert.Zero(t, calc.RegularOvertimeHours)
	assertBucketInvariant(t, record)
}

func TestCalculateRuleCapsDailyOvertime(t *testing.T) {
	shiftID := "shift-day"
	emp := employee.Employee{ID: "emp-1", Department: strptr("Ops"), CurrentShiftID: &shiftID}
	rule := overtime.OvertimeRule{
		ID:                "rule-1",
		ApplyOnWeekday:    true,
		WeekdayMultiplier: 1.5,
		MaxDailyOvertime:  4.0,
		IsActive:          true,
	}
	shifts := map[string]shift.Shift{shiftID: {
		ID:        shiftID,
		Name:      "Day Shift",
		StartTime: time.Date(2000, 1, 1, 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2000, 1, 1, 16, 0, 0, 0, time.UTC),
	}}
	fx := newEngineFixture(emp, []overtime.OvertimeRule{rule}, shifts)

	// 07:00-22:00 with one hour of break: fourteen worked hours, six
	// over the shift, capped to four.
	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	record := testRecord(tuesday, 7, 22)
	record.ShiftID = &shiftID

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, calc.RegularOvertimeHours, 0.0001)
	assert.InDelta(t, 4.0, calc.OvertimeHours, 0.0001)
	assertBucketInvariant(t, record)
}

func TestCalculateNoRuleWeekendEligibility(t *testing.T) {
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	run := func(t *testing.T, eligible bool) *attendance.AttendanceRecord {
		emp := employee.Employee{ID: "emp-1", EligibleForWeekendOvertime: eligible}
		fx := newEngineFixture(emp, nil, nil)
		fx.calendar.weekends["2025-06-07"] = true

		// Five worked hours on a Saturday.
		record := testRecord(saturday, 10, 16)
		_, err := fx.engine.Calculate(context.Background(), record, true)
		require.NoError(t, err)
		return record
	}

	t.Run("eligible", func(t *testing.T) {
		record := run(t, true)
		assert.InDelta(t, 5.0, record.WeekendOvertimeHours, 0.0001)
		assert.InDelta(t, 5.0, record.OvertimeHours, 0.0001)
		assert.Equal(t, 1.0, record.OvertimeRate)
		assert.InDelta(t, 5.0, record.OvertimeWeighted, 0.0001)
		assertBucketInvariant(t, record)
	})

	t.Run("ineligible", func(t *testing.T) {
		record := run(t, false)
		assert.Zero(t, record.WeekendOvertimeHours)
		assert.Zero(t, record.OvertimeHours)
		assert.Equal(t, 1.0, record.OvertimeRate)
		assertBucketInvariant(t, record)
	})
}

func TestCalculateNoRuleWeekdayCarriesNoPremium(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", EligibleForWeekdayOvertime: true}
	fx := newEngineFixture(emp, nil, nil)

	// No linked shift: only hours past twelve count. 08:00-22:00 minus
	// one hour of break is thirteen worked hours.
	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	record := testRecord(tuesday, 8, 22)

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, calc.RegularOvertimeHours, 0.0001)
	assert.Equal(t, 0.0, calc.OvertimeRate)
	assert.Zero(t, record.OvertimeWeighted)
	assertBucketInvariant(t, record)
}

func TestCalculateUnderStandardResetsStaleOvertime(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", EligibleForWeekdayOvertime: true}
	fx := newEngineFixture(emp, nil, nil)

	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	record := testRecord(tuesday, 9, 18) // eight worked hours
	record.OvertimeHours = 3
	record.OvertimeRate = 0.5 // below the cache threshold, so no short-circuit
	record.RegularOvertimeHours = 3
	record.OvertimeWeighted = 1.5

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)
	assert.Zero(t, calc.OvertimeHours)
	assert.Equal(t, 1.0, calc.OvertimeRate)
	assert.Zero(t, record.RegularOvertimeHours)
	assert.Zero(t, record.OvertimeWeighted)
	assertBucketInvariant(t, record)
}

func TestCalculateApplyFlagOffEarnsNothing(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", Department: strptr("Ops"), EligibleForWeekendOvertime: true}
	rule := overtime.OvertimeRule{
		ID:                "rule-1",
		ApplyOnWeekday:    true,
		ApplyOnWeekend:    false,
		WeekdayMultiplier: 1.5,
		WeekendMultiplier: 2.0,
		MaxDailyOvertime:  4.0,
		IsActive:          true,
	}
	fx := newEngineFixture(emp, []overtime.OvertimeRule{rule}, nil)
	fx.calendar.weekends["2025-06-07"] = true

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	record := testRecord(saturday, 10, 16)

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)
	// The rule governs the day but its weekend flag is off: the hours
	// were worked yet none are credited.
	assert.Zero(t, calc.WeekendOvertimeHours)
	assert.Zero(t, calc.OvertimeHours)
	assertBucketInvariant(t, record)
}

func TestCalculateDanglingRulePinFallsBackToDefault(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", EligibleForWeekendOvertime: true}
	fx := newEngineFixture(emp, nil, nil)
	fx.calendar.weekends["2025-06-07"] = true

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	record := testRecord(saturday, 10, 16)
	record.OvertimeRuleID = strptr("deleted-rule")

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, calc.WeekendOvertimeHours, 0.0001)
	assert.Equal(t, 1.0, calc.OvertimeRate)
}

func TestCalculateNightShiftMirrorsBucket(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", EligibleForWeekdayOvertime: true}
	fx := newEngineFixture(emp, nil, nil)

	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	record := testRecord(tuesday, 8, 22)
	record.ShiftType = attendance.ShiftTypeNight

	calc, err := fx.engine.Calculate(context.Background(), record, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, calc.RegularOvertimeHours, 0.0001)
	assert.InDelta(t, 1.0, calc.OvertimeNightHours, 0.0001)
}

func TestProcessRecordsBatch(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", EligibleForWeekdayOvertime: true}
	fx := newEngineFixture(emp, nil, nil)

	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	complete := testRecord(tuesday, 8, 22)
	complete.ID = "rec-complete"

	absent := &attendance.AttendanceRecord{
		ID:         "rec-absent",
		EmployeeID: "emp-1",
		Date:       tuesday.AddDate(0, 0, 1),
		Status:     attendance.StatusAbsent,
	}
	require.NoError(t, fx.records.Create(context.Background(), nil, complete))
	require.NoError(t, fx.records.Create(context.Background(), nil, absent))

	result, err := fx.engine.ProcessRecords(context.Background(), &overtime.RecalculateRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
		Force:     true,
	})
	require.NoError(t, err)

	// The absent record never reaches the batch: the repository filter
	// only returns rows with both punches.
	assert.Equal(t, 1, result.ProcessedRecords)
	assert.Equal(t, 1, result.UpdatedRecords)
	assert.Zero(t, result.SkippedRecords)

	updated, err := fx.records.GetByID(context.Background(), "rec-complete")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, updated.OvertimeHours, 0.0001)
}

func TestProcessRecordsWithoutRange(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", EligibleForWeekdayOvertime: true}
	fx := newEngineFixture(emp, nil, nil)

	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	record := testRecord(tuesday, 8, 22)
	record.ID = "rec-1"
	require.NoError(t, fx.records.Create(context.Background(), nil, record))

	// No dates: the sweep covers all history up to today, scoped to the
	// employee alone.
	result, err := fx.engine.ProcessRecords(context.Background(), &overtime.RecalculateRequest{
		EmployeeID: strptr("emp-1"),
		Force:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedRecords)
	assert.Equal(t, 1, result.UpdatedRecords)
}

func TestProcessRecordsRejectsInvertedRange(t *testing.T) {
	fx := newEngineFixture(employee.Employee{ID: "emp-1"}, nil, nil)

	_, err := fx.engine.ProcessRecords(context.Background(), &overtime.RecalculateRequest{
		StartDate: "2025-06-30",
		EndDate:   "2025-06-01",
	})
	assert.Error(t, err)
}

func TestProcessRecordsRejectsBadRange(t *testing.T) {
	fx := newEngineFixture(employee.Employee{ID: "emp-1"}, nil, nil)

	_, err := fx.engine.ProcessRecords(context.Background(), &overtime.RecalculateRequest{
		StartDate: "June 1st",
		EndDate:   "2025-06-30",
	})
	assert.Error(t, err)
}
