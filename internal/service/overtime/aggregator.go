package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
)

// Aggregator rolls per-record overtime into weekly and monthly totals
// for reporting and for the advisory cap checks.
type Aggregator struct {
	recordRepo   attendance.AttendanceRecordRepository
	employeeRepo employee.EmployeeRepository
	engine       overtime.EngineService
	selector     *RuleSelector
}

func NewAggregator(
	recordRepo attendance.AttendanceRecordRepository,
	employeeRepo employee.EmployeeRepository,
	engine overtime.EngineService,
	selector *RuleSelector,
) *Aggregator {
	return &Aggregator{
		recordRepo:   recordRepo,
		employeeRepo: employeeRepo,
		engine:       engine,
		selector:     selector,
	}
}

// Weekly implements overtime.AggregatorService. The week runs Monday
// through Sunday around the given day.
func (a *Aggregator) Weekly(ctx context.Context, employeeID string, anyDayInWeek time.Time) (*overtime.Summary, error) {
	start := weekStart(anyDayInWeek)
	end := start.AddDate(0, 0, 6)
	return a.summarize(ctx, employeeID, start, end)
}

// Monthly implements overtime.AggregatorService.
func (a *Aggregator) Monthly(ctx context.Context, employeeID string, year int, month time.Month) (*overtime.Summary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return a.summarize(ctx, employeeID, start, end)
}

func (a *Aggregator) summarize(ctx context.Context, employeeID string, start, end time.Time) (*overtime.Summary, error) {
	records, err := a.recordRepo.ListRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list records for summary: %w", err)
	}

	summary := &overtime.Summary{
		EmployeeID:  employeeID,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
	}

	var weightedSum float64
	for i := range records {
		record := &records[i]

		// Records the best-effort trigger missed are computed on read.
		if record.OvertimeHours <= 0 && record.CheckIn != nil && record.CheckOut != nil {
			if err := a.engine.ProcessRecord(ctx, record, false); err != nil {
				slog.Error("On-the-fly overtime calculation failed",
					"record_id", record.ID, "error", err)
			}
		}

		if record.OvertimeHours > 0 {
			summary.DaysWithOvertime++
		}
		summary.TotalOvertimeHours += record.OvertimeHours
		summary.RegularOvertimeHours += record.RegularOvertimeHours
		summary.WeekendOvertimeHours += record.WeekendOvertimeHours
		summary.HolidayOvertimeHours += record.HolidayOvertimeHours
		weightedSum += record.OvertimeHours * record.OvertimeRate
	}

	if summary.TotalOvertimeHours > 0 {
		summary.WeightedAverageRate = weightedSum / summary.TotalOvertimeHours
	} else {
		summary.WeightedAverageRate = 1.0
	}
	summary.TotalWeightedHours = weightedSum

	return summary, nil
}

// weekStart returns the Monday of the week containing d.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	y, m, day := d.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
