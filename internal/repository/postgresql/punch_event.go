package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

type punchEventRepository struct {
	db *database.DB
}

func NewPunchEventRepository(db *database.DB) attendance.PunchEventRepository {
	return &punchEventRepository{db: db}
}

const punchEventColumns = `
	id, employee_id, device_id, timestamp, direction,
	is_processed, attendance_record_id, location, created_at`

// Create implements attendance.PunchEventRepository.
func (r *punchEventRepository) Create(ctx context.Context, tx database.Querier, event *attendance.PunchEvent) error {
	q := querier(r.db, tx)

	query := `
		INSERT INTO punch_events (id, employee_id, device_id, timestamp, direction, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		event.ID,
		event.EmployeeID,
		event.DeviceID,
		event.Timestamp,
		event.Direction,
		event.Location,
	).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create punch event: %w", err)
	}
	return nil
}

// UnprocessedEmployeeDays implements attendance.PunchEventRepository.
func (r *punchEventRepository) UnprocessedEmployeeDays(ctx context.Context, from, to *time.Time, limit int) ([]attendance.EmployeeDay, error) {
	query := `
		SELECT DISTINCT employee_id, (timestamp AT TIME ZONE 'UTC')::date AS log_date
		FROM punch_events
		WHERE is_processed = false
		  AND ($1::date IS NULL OR (timestamp AT TIME ZONE 'UTC')::date >= $1)
		  AND ($2::date IS NULL OR (timestamp AT TIME ZONE 'UTC')::date <= $2)
		ORDER BY log_date, employee_id
	`
	args := []interface{}{from, to}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed employee-days: %w", err)
	}
	defer rows.Close()

	var days []attendance.EmployeeDay
	for rows.Next() {
		var day attendance.EmployeeDay
		if err := rows.Scan(&day.EmployeeID, &day.Date); err != nil {
			return nil, fmt.Errorf("failed to scan employee-day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// ListForEmployeeOnDate implements attendance.PunchEventRepository.
func (r *punchEventRepository) ListForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.PunchEvent, error) {
	query := `
		SELECT ` + punchEventColumns + `
		FROM punch_events
		WHERE employee_id = $1
		  AND (timestamp AT TIME ZONE 'UTC')::date = $2::date
		ORDER BY timestamp
	`
	rows, err := r.db.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch events: %w", err)
	}
	defer rows.Close()

	return scanPunchEvents(rows)
}

// ListByIDs implements attendance.PunchEventRepository.
func (r *punchEventRepository) ListByIDs(ctx context.Context, ids []string) ([]attendance.PunchEvent, error) {
	query := `
		SELECT ` + punchEventColumns + `
		FROM punch_events
		WHERE id = ANY($1)
		ORDER BY timestamp
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch events by ids: %w", err)
	}
	defer rows.Close()

	return scanPunchEvents(rows)
}

// MarkProcessed implements attendance.PunchEventRepository.
func (r *punchEventRepository) MarkProcessed(ctx context.Context, tx database.Querier, ids []string, recordID string) error {
	q := querier(r.db, tx)

	_, err := q.Exec(ctx, `
		UPDATE punch_events
		SET is_processed = true, attendance_record_id = $2
		WHERE id = ANY($1)
	`, ids, recordID)
	if err != nil {
		return fmt.Errorf("failed to mark punch events processed: %w", err)
	}
	return nil
}

// Stats implements attendance.PunchEventRepository.
func (r *punchEventRepository) Stats(ctx context.Context) (*attendance.ProcessingStats, error) {
	stats := &attendance.ProcessingStats{}

	var oldest *time.Time
	err := r.db.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE is_processed),
			count(*) FILTER (WHERE NOT is_processed),
			count(DISTINCT employee_id) FILTER (WHERE NOT is_processed),
			min(timestamp) FILTER (WHERE NOT is_processed)
		FROM punch_events
	`).Scan(
		&stats.TotalEvents,
		&stats.ProcessedEvents,
		&stats.UnprocessedEvents,
		&stats.PendingEmployees,
		&oldest,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read punch event stats: %w", err)
	}
	if oldest != nil {
		s := oldest.Format(time.RFC3339)
		stats.OldestUnprocessed = &s
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE shift_type = 'day'),
			count(*) FILTER (WHERE shift_type = 'afternoon'),
			count(*) FILTER (WHERE shift_type = 'night'),
			count(*) FILTER (WHERE overtime_hours > 0),
			count(*) FILTER (WHERE break_duration > 1.5)
		FROM attendance_records
	`).Scan(
		&stats.TotalRecords,
		&stats.DayShiftRecords,
		&stats.AfternoonShiftRecords,
		&stats.NightShiftRecords,
		&stats.OvertimeRecords,
		&stats.ExcessiveBreakRecords,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance record stats: %w", err)
	}

	return stats, nil
}

func scanPunchEvents(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]attendance.PunchEvent, error) {
	var events []attendance.PunchEvent
	for rows.Next() {
		var ev attendance.PunchEvent
		err := rows.Scan(
			&ev.ID, &ev.EmployeeID, &ev.DeviceID, &ev.Timestamp, &ev.Direction,
			&ev.IsProcessed, &ev.AttendanceRecordID, &ev.Location, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
