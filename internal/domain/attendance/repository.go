package attendance

import (
	"context"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

// EmployeeDay identifies one reconciliation unit: all punches for one
// employee on one calendar date.
type EmployeeDay struct {
	EmployeeID string
	Date       time.Time
}

type PunchEventRepository interface {
	Create(ctx context.Context, tx database.Querier, event *PunchEvent) error
	// UnprocessedEmployeeDays lists distinct (employee, date) pairs with
	// unprocessed events, ordered by date then employee, capped at limit.
	UnprocessedEmployeeDays(ctx context.Context, from, to *time.Time, limit int) ([]EmployeeDay, error)
	// ListForEmployeeOnDate returns ALL events (processed or not) for the
	// employee whose timestamps fall on the given calendar date, ordered
	// by timestamp ascending.
	ListForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]PunchEvent, error)
	ListByIDs(ctx context.Context, ids []string) ([]PunchEvent, error)
	MarkProcessed(ctx context.Context, tx database.Querier, ids []string, recordID string) error
	Stats(ctx context.Context) (*ProcessingStats, error)
}

type AttendanceRecordRepository interface {
	Create(ctx context.Context, tx database.Querier, record *AttendanceRecord) error
	Update(ctx context.Context, tx database.Querier, record *AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*AttendanceRecord, error)
	// GetByEmployeeAndDate returns (nil, nil) when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	// GetOpenOvernight returns the employee's record for the given date
	// that has a check-in but no check-out, or (nil, nil).
	GetOpenOvernight(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceRecord, error)
	// ListForRecalculation returns records in the range carrying both a
	// check-in and a check-out, optionally scoped to one employee, for
	// the engine's batch pass.
	ListForRecalculation(ctx context.Context, employeeID *string, start, end time.Time) ([]AttendanceRecord, error)
	ListHolidayRecords(ctx context.Context, start, end time.Time) ([]AttendanceRecord, error)
	List(ctx context.Context, filter RecordFilter) ([]AttendanceRecord, int64, error)
}
