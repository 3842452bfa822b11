package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

// ExistsEmployeeHoliday implements holiday.HolidayRepository.
func (r *holidayRepository) ExistsEmployeeHoliday(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays WHERE date = $1 AND employee_id = $2
		)
	`, date, employeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee holiday: %w", err)
	}
	return exists, nil
}

// ExistsGlobalHoliday implements holiday.HolidayRepository.
func (r *holidayRepository) ExistsGlobalHoliday(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays WHERE date = $1 AND is_employee_specific = false
		)
	`, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check global holiday: %w", err)
	}
	return exists, nil
}

// ExistsRecurringHoliday implements holiday.HolidayRepository.
func (r *holidayRepository) ExistsRecurringHoliday(ctx context.Context, employeeID string, month time.Month, day int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE is_recurring = true
			  AND EXTRACT(MONTH FROM date) = $1
			  AND EXTRACT(DAY FROM date) = $2
			  AND (is_employee_specific = false OR employee_id = $3)
		)
	`, int(month), day, employeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recurring holiday: %w", err)
	}
	return exists, nil
}
