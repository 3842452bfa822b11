package attendance

import (
	"context"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
)

// CalendarResolver answers day-classification questions for one employee
// and one calendar date.
type CalendarResolver interface {
	// Resolve reports whether the date is a holiday and/or weekend for
	// the employee. Holiday wins when both apply.
	Resolve(ctx context.Context, emp *employee.Employee, date time.Time) (isHoliday, isWeekend bool, err error)
	EffectiveWeekendDays(ctx context.Context, emp *employee.Employee, date time.Time) ([]int, error)
}

// ReconciliationService turns raw punch events into daily attendance
// records.
type ReconciliationService interface {
	ProcessUnprocessedLogs(ctx context.Context, req *ProcessLogsRequest) (*ProcessLogsResult, error)
	ProcessSelectedLogs(ctx context.Context, req *ProcessSelectedRequest) (*ProcessLogsResult, error)
	Stats(ctx context.Context) (*ProcessingStats, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]RecordResponse, int64, error)
}

// IngestionService accepts punches from devices.
type IngestionService interface {
	Punch(ctx context.Context, req *PunchRequest) (*PunchResponse, error)
}
