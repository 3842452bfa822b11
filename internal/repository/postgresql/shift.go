package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/weekday"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, name, start_time, end_time, is_overnight, break_duration,
	grace_period_minutes, is_active, weekend_days, created_at, updated_at`

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (*shift.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	s, err := scanShift(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

type shiftAssignmentRepository struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shift.ShiftAssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}

// GetShiftForDate implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) GetShiftForDate(ctx context.Context, employeeID string, date time.Time) (*shift.Shift, error) {
	query := `
		SELECT s.id, s.name, s.start_time, s.end_time, s.is_overnight, s.break_duration,
		       s.grace_period_minutes, s.is_active, s.weekend_days, s.created_at, s.updated_at
		FROM shift_assignments sa
		JOIN shifts s ON s.id = sa.shift_id
		WHERE sa.employee_id = $1
		  AND sa.is_active = true
		  AND sa.start_date <= $2
		  AND (sa.end_date IS NULL OR sa.end_date >= $2)
		ORDER BY sa.start_date DESC
		LIMIT 1
	`
	s, err := scanShift(r.db.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift assignment for date: %w", err)
	}
	return s, nil
}

func scanShift(row pgx.Row) (*shift.Shift, error) {
	var s shift.Shift
	var weekendDays []int
	err := row.Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.IsOvernight, &s.BreakDuration,
		&s.GracePeriodMinutes, &s.IsActive, &weekendDays, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.WeekendDays = weekday.FromInts(weekendDays)
	return &s, nil
}
