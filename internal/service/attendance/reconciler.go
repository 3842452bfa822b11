package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/validator"
	"github.com/mir-hr/attendance-backend-go/internal/repository/postgresql"
)

// session is one paired IN->OUT interval within an employee-day.
type session struct {
	in  attendance.PunchEvent
	out attendance.PunchEvent
}

// ReconcilerService turns raw punch events into canonical daily
// attendance records: one record per employee per date, overnight
// shifts anchored to the check-in date, at most one per day.
type ReconcilerService struct {
	db           *database.DB
	punchRepo    attendance.PunchEventRepository
	recordRepo   attendance.AttendanceRecordRepository
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
	calendar     attendance.CalendarResolver
	classifier   *Classifier
	engine       overtime.EngineService

	// runTx wraps each employee-day commit. Replaced in tests to run
	// against in-memory repositories.
	runTx func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewReconcilerService(
	db *database.DB,
	punchRepo attendance.PunchEventRepository,
	recordRepo attendance.AttendanceRecordRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	calendar attendance.CalendarResolver,
	classifier *Classifier,
	engine overtime.EngineService,
) *ReconcilerService {
	s := &ReconcilerService{
		db:           db,
		punchRepo:    punchRepo,
		recordRepo:   recordRepo,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		calendar:     calendar,
		classifier:   classifier,
		engine:       engine,
	}
	s.runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return postgresql.WithTransaction(ctx, s.db, fn)
	}
	return s
}

// ProcessUnprocessedLogs implements attendance.ReconciliationService.
// Each employee-day commits on its own; a failure there is logged and
// counted, never aborts the batch.
func (s *ReconcilerService) ProcessUnprocessedLogs(ctx context.Context, req *attendance.ProcessLogsRequest) (*attendance.ProcessLogsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var from, to *time.Time
	if req.StartDate != nil {
		d, _ := validator.IsValidDate(*req.StartDate)
		from = &d
	}
	if req.EndDate != nil {
		d, _ := validator.IsValidDate(*req.EndDate)
		to = &d
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, attendance.ErrInvalidDateRange
	}

	days, err := s.punchRepo.UnprocessedEmployeeDays(ctx, from, to, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list unprocessed employee-days: %w", err)
	}

	result := &attendance.ProcessLogsResult{}
	for _, day := range days {
		if err := s.processEmployeeDay(ctx, day, result); err != nil {
			slog.Error("Failed to reconcile employee-day",
				"employee_id", day.EmployeeID,
				"date", day.Date.Format("2006-01-02"),
				"error", err)
			result.FailedUnits++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s %s: %v", day.EmployeeID, day.Date.Format("2006-01-02"), err))
		}
	}

	// A full range means payroll wants complete coverage: fill the gaps
	// with absent records.
	if from != nil && to != nil {
		s.synthesizeAbsences(ctx, *from, *to, result)
	}

	return result, nil
}

// ProcessSelectedLogs reconciles only the employee-days touched by the
// selected punch events. Used from the missing-punches admin screen.
func (s *ReconcilerService) ProcessSelectedLogs(ctx context.Context, req *attendance.ProcessSelectedRequest) (*attendance.ProcessLogsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	events, err := s.punchRepo.ListByIDs(ctx, req.EventIDs)
	if err != nil {
		return nil, fmt.Errorf("load selected punch events: %w", err)
	}
	if len(events) == 0 {
		return nil, attendance.ErrPunchEventNotFound
	}

	seen := make(map[attendance.EmployeeDay]bool)
	var days []attendance.EmployeeDay
	for _, ev := range events {
		day := attendance.EmployeeDay{
			EmployeeID: ev.EmployeeID,
			Date:       dateOf(ev.Timestamp),
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool {
		if !days[i].Date.Equal(days[j].Date) {
			return days[i].Date.Before(days[j].Date)
		}
		return days[i].EmployeeID < days[j].EmployeeID
	})

	result := &attendance.ProcessLogsResult{}
	for _, day := range days {
		if err := s.processEmployeeDay(ctx, day, result); err != nil {
			slog.Error("Failed to reconcile selected employee-day",
				"employee_id", day.EmployeeID,
				"date", day.Date.Format("2006-01-02"),
				"error", err)
			result.FailedUnits++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s %s: %v", day.EmployeeID, day.Date.Format("2006-01-02"), err))
		}
	}
	return result, nil
}

// Stats implements attendance.ReconciliationService.
func (s *ReconcilerService) Stats(ctx context.Context) (*attendance.ProcessingStats, error) {
	return s.punchRepo.Stats(ctx)
}

// ListRecords implements attendance.ReconciliationService.
func (s *ReconcilerService) ListRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.RecordResponse, int64, error) {
	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance records: %w", err)
	}

	out := make([]attendance.RecordResponse, len(records))
	for i := range records {
		out[i] = attendance.NewRecordResponse(&records[i])
	}
	return out, total, nil
}

// processEmployeeDay reconciles all punches for one employee on one
// grouping date. It handles the overnight lookahead into the next day,
// the continuation of a prior day's open record, session pairing, break
// estimation and the upsert, then triggers the overtime engine
// best-effort.
func (s *ReconcilerService) processEmployeeDay(ctx context.Context, day attendance.EmployeeDay, result *attendance.ProcessLogsResult) error {
	events, err := s.punchRepo.ListForEmployeeOnDate(ctx, day.EmployeeID, day.Date)
	if err != nil {
		return fmt.Errorf("load punch events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	// Overnight lookahead: a trailing IN suggests the matching OUT fell
	// on the next calendar day.
	if events[len(events)-1].IsIn() {
		nextDay, err := s.punchRepo.ListForEmployeeOnDate(ctx, day.EmployeeID, day.Date.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("load next-day punch events: %w", err)
		}
		if len(nextDay) > 0 && nextDay[0].IsOut() {
			events = append(events, nextDay...)
		}
	} else if events[0].IsOut() {
		// A leading OUT may complete yesterday's open overnight record.
		done, err := s.completeOvernight(ctx, day, events, result)
		if err != nil || done {
			return err
		}
	}

	var unprocessed []string
	for _, ev := range events {
		if !ev.IsProcessed {
			unprocessed = append(unprocessed, ev.ID)
		}
	}
	if len(unprocessed) == 0 {
		// Re-running over an already-processed day is a no-op.
		return nil
	}

	sessions, openIn := pairSessions(events)

	var checkIn, checkOut *time.Time
	switch {
	case len(sessions) > 0:
		in := sessions[0].in.Timestamp
		out := sessions[len(sessions)-1].out.Timestamp
		checkIn, checkOut = &in, &out
	case openIn != nil:
		// Only an IN: keep the record open so a later OUT can complete it.
		in := openIn.Timestamp
		checkIn = &in
	default:
		// Only OUT punches with nothing to complete.
		out := events[len(events)-1].Timestamp
		checkOut = &out
	}

	// Anchor to the check-in date so overnight shifts land on the day
	// the shift started.
	recordDate := day.Date
	if checkIn != nil {
		recordDate = dateOf(*checkIn)
	}

	emp, err := s.employeeRepo.GetByID(ctx, day.EmployeeID)
	if err != nil {
		return fmt.Errorf("load employee: %w", err)
	}

	record, err := s.recordRepo.GetByEmployeeAndDate(ctx, day.EmployeeID, recordDate)
	if err != nil {
		return fmt.Errorf("find existing record: %w", err)
	}
	created := false
	if record == nil {
		record = &attendance.AttendanceRecord{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: day.EmployeeID,
			Date:       recordDate,
		}
		created = true
	}

	record.CheckIn = checkIn
	record.CheckOut = checkOut
	record.Status = attendance.StatusPresent
	record.ShiftType = s.classifier.Classify(ctx, checkIn, &day.EmployeeID)

	isHoliday, isWeekend, err := s.calendar.Resolve(ctx, &emp, recordDate)
	if err != nil {
		return fmt.Errorf("resolve calendar: %w", err)
	}
	record.IsHoliday = isHoliday
	record.IsWeekend = isWeekend

	if checkIn != nil && checkOut != nil {
		breakDuration, breakStart, breakEnd := EstimateBreaks(events)
		record.BreakDuration = breakDuration
		record.BreakCalculated = true
		record.BreakStart = breakStart
		record.BreakEnd = breakEnd
		record.TotalDuration = attendance.TotalDurationHours(*checkIn, *checkOut)
		record.CalculateWorkHours()
	} else {
		record.BreakDuration = 0
		record.BreakCalculated = false
		record.TotalDuration = 0
		record.WorkHours = 0
	}

	s.applyShift(ctx, &emp, record)

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if created {
			if err := s.recordRepo.Create(ctx, tx, record); err != nil {
				return err
			}
		} else {
			if err := s.recordRepo.Update(ctx, tx, record); err != nil {
				return err
			}
		}
		return s.punchRepo.MarkProcessed(ctx, tx, unprocessed, record.ID)
	})
	if err != nil {
		return fmt.Errorf("commit employee-day: %w", err)
	}

	if created {
		result.CreatedRecords++
	} else {
		result.UpdatedRecords++
	}
	result.ProcessedEvents += len(unprocessed)

	s.triggerOvertime(ctx, record)
	return nil
}

// completeOvernight folds a leading OUT into the previous day's open
// record. Returns true when the day was fully consumed that way.
func (s *ReconcilerService) completeOvernight(ctx context.Context, day attendance.EmployeeDay, events []attendance.PunchEvent, result *attendance.ProcessLogsResult) (bool, error) {
	prev, err := s.recordRepo.GetOpenOvernight(ctx, day.EmployeeID, day.Date.AddDate(0, 0, -1))
	if err != nil {
		return false, fmt.Errorf("find open overnight record: %w", err)
	}
	if prev == nil {
		return false, nil
	}

	checkOut := events[0].Timestamp
	prev.CheckOut = &checkOut
	prev.TotalDuration = attendance.TotalDurationHours(*prev.CheckIn, checkOut)
	prev.CalculateWorkHours()

	var unprocessed []string
	for _, ev := range events {
		if !ev.IsProcessed {
			unprocessed = append(unprocessed, ev.ID)
		}
	}

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.recordRepo.Update(ctx, tx, prev); err != nil {
			return err
		}
		if len(unprocessed) == 0 {
			return nil
		}
		return s.punchRepo.MarkProcessed(ctx, tx, unprocessed, prev.ID)
	})
	if err != nil {
		return false, fmt.Errorf("complete overnight record: %w", err)
	}

	result.UpdatedRecords++
	result.ProcessedEvents += len(unprocessed)
	s.triggerOvertime(ctx, prev)
	return true, nil
}

// applyShift links the employee's current shift onto the record and
// derives lateness from its start time plus the grace period.
func (s *ReconcilerService) applyShift(ctx context.Context, emp *employee.Employee, record *attendance.AttendanceRecord) {
	record.GracePeriodMinutes = 0
	record.LateMinutes = 0
	if emp.CurrentShiftID == nil {
		return
	}

	sh, err := s.shiftRepo.GetByID(ctx, *emp.CurrentShiftID)
	if err != nil || sh == nil {
		return
	}

	record.ShiftID = &sh.ID
	record.GracePeriodMinutes = sh.GracePeriodMinutes

	if record.CheckIn == nil {
		return
	}

	y, m, d := record.Date.Date()
	shiftStart := time.Date(y, m, d,
		sh.StartTime.Hour(), sh.StartTime.Minute(), 0, 0, record.CheckIn.Location())
	graceLimit := shiftStart.Add(time.Duration(sh.GracePeriodMinutes) * time.Minute)

	if record.CheckIn.After(graceLimit) {
		record.Status = attendance.StatusLate
		// Lateness counts from the scheduled start, not the grace limit.
		record.LateMinutes = int(record.CheckIn.Sub(shiftStart).Minutes())
	}
}

// synthesizeAbsences creates absent records for every active employee
// and working date in the range without one.
func (s *ReconcilerService) synthesizeAbsences(ctx context.Context, from, to time.Time, result *attendance.ProcessLogsResult) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		slog.Error("Failed to list employees for absence synthesis", "error", err)
		return
	}

	for i := range employees {
		emp := &employees[i]
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			existing, err := s.recordRepo.GetByEmployeeAndDate(ctx, emp.ID, d)
			if err != nil {
				slog.Error("Absence check failed", "employee_id", emp.ID, "date", d.Format("2006-01-02"), "error", err)
				continue
			}
			if existing != nil {
				continue
			}

			isHoliday, isWeekend, err := s.calendar.Resolve(ctx, emp, d)
			if err != nil {
				slog.Error("Calendar resolution failed during absence synthesis",
					"employee_id", emp.ID, "date", d.Format("2006-01-02"), "error", err)
				continue
			}
			if isHoliday || isWeekend {
				continue
			}

			absent := &attendance.AttendanceRecord{
				ID:         uuid.Must(uuid.NewV7()).String(),
				EmployeeID: emp.ID,
				Date:       d,
				Status:     attendance.StatusAbsent,
			}
			if err := s.recordRepo.Create(ctx, nil, absent); err != nil {
				slog.Error("Failed to create absent record",
					"employee_id", emp.ID, "date", d.Format("2006-01-02"), "error", err)
				continue
			}
			result.AbsentRecords++
		}
	}
}

// triggerOvertime runs the engine on a freshly reconciled record. Any
// failure is logged, never propagated; the nightly sweep retries.
func (s *ReconcilerService) triggerOvertime(ctx context.Context, record *attendance.AttendanceRecord) {
	if s.engine == nil {
		return
	}
	if err := s.engine.ProcessRecord(ctx, record, true); err != nil {
		slog.Error("Overtime calculation failed after reconciliation",
			"record_id", record.ID,
			"employee_id", record.EmployeeID,
			"date", record.Date.Format("2006-01-02"),
			"error", err)
	}
}

// pairSessions scans chronologically ordered events and pairs each IN
// with the next OUT. Out-of-order or duplicate punches are skipped. A
// trailing unmatched IN is returned separately so the caller can leave
// the record open.
func pairSessions(events []attendance.PunchEvent) ([]session, *attendance.PunchEvent) {
	sorted := make([]attendance.PunchEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sessions []session
	var pending *attendance.PunchEvent
	for i := range sorted {
		ev := sorted[i]
		switch {
		case ev.IsIn():
			// A repeated IN supersedes the previous unmatched one.
			pending = &sorted[i]
		case ev.IsOut() && pending != nil:
			sessions = append(sessions, session{in: *pending, out: ev})
			pending = nil
		}
	}
	return sessions, pending
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
