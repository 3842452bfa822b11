package overtime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
)

// ApplyOvertimeLimits implements overtime.AggregatorService: it clamps
// the record's credited overtime to fit within whichever of the rule's
// daily, weekly and monthly caps is tightest, given the hours already
// accumulated in the period. The check is advisory; callers decide
// whether to persist the reduced figure.
func (a *Aggregator) ApplyOvertimeLimits(ctx context.Context, record *attendance.AttendanceRecord, rule *overtime.OvertimeRule) (float64, error) {
	requested := record.OvertimeHours

	if rule == nil {
		emp, err := a.employeeRepo.GetByID(ctx, record.EmployeeID)
		if err != nil {
			return 0, fmt.Errorf("load employee: %w", err)
		}
		rule, err = a.selector.Select(ctx, &emp, record.Date)
		if err != nil {
			return 0, err
		}
	}

	// No governing rule: only the hard-coded daily ceiling applies.
	if rule == nil {
		return math.Min(requested, defaultMaxDailyOT), nil
	}

	maxDaily := rule.MaxDailyOvertime
	if maxDaily <= 0 {
		maxDaily = defaultMaxDailyOT
	}
	allowed := math.Min(requested, maxDaily)

	if rule.MaxWeeklyOvertime > 0 {
		// Accumulated hours this week, the record's own day excluded.
		start := weekStart(record.Date)
		accumulated, err := a.accumulated(ctx, record, start, record.Date.AddDate(0, 0, -1))
		if err != nil {
			return 0, err
		}
		if accumulated+allowed > rule.MaxWeeklyOvertime {
			allowed = math.Max(0, rule.MaxWeeklyOvertime-accumulated)
		}
	}

	if rule.MaxMonthlyOvertime > 0 {
		start := time.Date(record.Date.Year(), record.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		accumulated, err := a.accumulated(ctx, record, start, end)
		if err != nil {
			return 0, err
		}
		if accumulated+allowed > rule.MaxMonthlyOvertime {
			allowed = math.Max(0, rule.MaxMonthlyOvertime-accumulated)
		}
	}

	return allowed, nil
}

// accumulated sums already-credited overtime in the range, skipping the
// record under evaluation so it never counts against itself.
func (a *Aggregator) accumulated(ctx context.Context, record *attendance.AttendanceRecord, start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, nil
	}
	records, err := a.recordRepo.ListRange(ctx, record.EmployeeID, start, end)
	if err != nil {
		return 0, fmt.Errorf("list records for limit check: %w", err)
	}

	var total float64
	for i := range records {
		if records[i].ID == record.ID {
			continue
		}
		total += records[i].OvertimeHours
	}
	return total, nil
}
