package overtime

import (
	"context"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
)

// EngineService computes and credits overtime on attendance records.
type EngineService interface {
	// Calculate computes overtime for one record without persisting.
	// forceRecalc bypasses the cached-result short-circuit.
	Calculate(ctx context.Context, record *attendance.AttendanceRecord, forceRecalc bool) (*Calculation, error)
	// ProcessRecord calculates and persists overtime for one record.
	ProcessRecord(ctx context.Context, record *attendance.AttendanceRecord, forceRecalc bool) error
	// ProcessRecords runs the engine over a date range.
	ProcessRecords(ctx context.Context, req *RecalculateRequest) (*RecalculateResult, error)
	// RecalculateHolidayOvertime forces a fresh pass over holiday
	// records in the range.
	RecalculateHolidayOvertime(ctx context.Context, req *RecalculateRequest) (*RecalculateResult, error)
}

// AggregatorService rolls per-day overtime into periods.
type AggregatorService interface {
	Weekly(ctx context.Context, employeeID string, anyDayInWeek time.Time) (*Summary, error)
	Monthly(ctx context.Context, employeeID string, year int, month time.Month) (*Summary, error)
	// ApplyOvertimeLimits clamps a record's credited overtime against the
	// rule's daily, weekly and monthly caps, in that order.
	ApplyOvertimeLimits(ctx context.Context, record *attendance.AttendanceRecord, rule *OvertimeRule) (float64, error)
}
