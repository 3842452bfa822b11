package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

type attendanceRecordRepository struct {
	db *database.DB
}

func NewAttendanceRecordRepository(db *database.DB) attendance.AttendanceRecordRepository {
	return &attendanceRecordRepository{db: db}
}

const attendanceRecordColumns = `
	id, employee_id, shift_id, overtime_rule_id, date, check_in, check_out,
	status, is_holiday, is_weekend, work_hours,
	overtime_hours, overtime_rate, overtime_night_hours,
	regular_overtime_hours, weekend_overtime_hours, holiday_overtime_hours,
	overtime_weighted, break_duration, break_calculated, break_start, break_end,
	late_minutes, grace_period_minutes, shift_type, total_duration,
	notes, created_at, updated_at`

// Create implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) Create(ctx context.Context, tx database.Querier, record *attendance.AttendanceRecord) error {
	q := querier(r.db, tx)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, shift_id, overtime_rule_id, date, check_in, check_out,
			status, is_holiday, is_weekend, work_hours,
			overtime_hours, overtime_rate, overtime_night_hours,
			regular_overtime_hours, weekend_overtime_hours, holiday_overtime_hours,
			overtime_weighted, break_duration, break_calculated, break_start, break_end,
			late_minutes, grace_period_minutes, shift_type, total_duration, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		) RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.ShiftID, record.OvertimeRuleID,
		record.Date, record.CheckIn, record.CheckOut,
		record.Status, record.IsHoliday, record.IsWeekend, record.WorkHours,
		record.OvertimeHours, record.OvertimeRate, record.OvertimeNightHours,
		record.RegularOvertimeHours, record.WeekendOvertimeHours, record.HolidayOvertimeHours,
		record.OvertimeWeighted, record.BreakDuration, record.BreakCalculated,
		record.BreakStart, record.BreakEnd,
		record.LateMinutes, record.GracePeriodMinutes, record.ShiftType,
		record.TotalDuration, record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "attendance_records_employee_date_key") {
			return attendance.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

// Update implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) Update(ctx context.Context, tx database.Querier, record *attendance.AttendanceRecord) error {
	q := querier(r.db, tx)

	query := `
		UPDATE attendance_records SET
			shift_id = $2, overtime_rule_id = $3, check_in = $4, check_out = $5,
			status = $6, is_holiday = $7, is_weekend = $8, work_hours = $9,
			overtime_hours = $10, overtime_rate = $11, overtime_night_hours = $12,
			regular_overtime_hours = $13, weekend_overtime_hours = $14,
			holiday_overtime_hours = $15, overtime_weighted = $16,
			break_duration = $17, break_calculated = $18, break_start = $19, break_end = $20,
			late_minutes = $21, grace_period_minutes = $22, shift_type = $23,
			total_duration = $24, notes = $25, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query,
		record.ID, record.ShiftID, record.OvertimeRuleID,
		record.CheckIn, record.CheckOut,
		record.Status, record.IsHoliday, record.IsWeekend, record.WorkHours,
		record.OvertimeHours, record.OvertimeRate, record.OvertimeNightHours,
		record.RegularOvertimeHours, record.WeekendOvertimeHours, record.HolidayOvertimeHours,
		record.OvertimeWeighted, record.BreakDuration, record.BreakCalculated,
		record.BreakStart, record.BreakEnd,
		record.LateMinutes, record.GracePeriodMinutes, record.ShiftType,
		record.TotalDuration, record.Notes,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	return nil
}

// GetByID implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) GetByID(ctx context.Context, id string) (*attendance.AttendanceRecord, error) {
	query := `SELECT ` + attendanceRecordColumns + ` FROM attendance_records WHERE id = $1`

	record, err := scanAttendanceRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceRecordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
		LIMIT 1
	`
	record, err := scanAttendanceRecord(r.db.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}
	return record, nil
}

// GetOpenOvernight implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) GetOpenOvernight(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceRecordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
		  AND check_in IS NOT NULL AND check_out IS NULL
		LIMIT 1
	`
	record, err := scanAttendanceRecord(r.db.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open overnight record: %w", err)
	}
	return record, nil
}

// ListRange implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceRecordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`
	rows, err := r.db.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	return scanAttendanceRecords(rows)
}

// ListForRecalculation implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) ListForRecalculation(ctx context.Context, employeeID *string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceRecordColumns + `
		FROM attendance_records
		WHERE date >= $1 AND date <= $2
		  AND check_in IS NOT NULL AND check_out IS NOT NULL
		  AND ($3::uuid IS NULL OR employee_id = $3)
		ORDER BY date, employee_id
	`
	rows, err := r.db.Query(ctx, query, start, end, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for recalculation: %w", err)
	}
	defer rows.Close()

	return scanAttendanceRecords(rows)
}

// ListHolidayRecords implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) ListHolidayRecords(ctx context.Context, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceRecordColumns + `
		FROM attendance_records
		WHERE is_holiday = true AND date >= $1 AND date <= $2
		ORDER BY date, employee_id
	`
	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holiday records: %w", err)
	}
	defer rows.Close()

	return scanAttendanceRecords(rows)
}

// List implements attendance.AttendanceRecordRepository.
func (r *attendanceRecordRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.AttendanceRecord, int64, error) {
	where := `
		WHERE ($1::uuid IS NULL OR employee_id = $1)
		  AND ($2::date IS NULL OR date >= $2)
		  AND ($3::date IS NULL OR date <= $3)
		  AND ($4::text IS NULL OR status = $4)
	`
	args := []interface{}{filter.EmployeeID, filter.StartDate, filter.EndDate, filter.Status}

	var total int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM attendance_records`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	query := `SELECT ` + attendanceRecordColumns + ` FROM attendance_records` + where + `
		ORDER BY date DESC, employee_id
		LIMIT $5 OFFSET $6
	`
	rows, err := r.db.Query(ctx, query, append(args, pageSize, (page-1)*pageSize)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records, err := scanAttendanceRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func scanAttendanceRecord(row pgx.Row) (*attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.ShiftID, &rec.OvertimeRuleID,
		&rec.Date, &rec.CheckIn, &rec.CheckOut,
		&rec.Status, &rec.IsHoliday, &rec.IsWeekend, &rec.WorkHours,
		&rec.OvertimeHours, &rec.OvertimeRate, &rec.OvertimeNightHours,
		&rec.RegularOvertimeHours, &rec.WeekendOvertimeHours, &rec.HolidayOvertimeHours,
		&rec.OvertimeWeighted, &rec.BreakDuration, &rec.BreakCalculated,
		&rec.BreakStart, &rec.BreakEnd,
		&rec.LateMinutes, &rec.GracePeriodMinutes, &rec.ShiftType,
		&rec.TotalDuration, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanAttendanceRecords(rows pgx.Rows) ([]attendance.AttendanceRecord, error) {
	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
