package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

type overtimeRuleRepository struct {
	db *database.DB
}

func NewOvertimeRuleRepository(db *database.DB) overtime.OvertimeRuleRepository {
	return &overtimeRuleRepository{db: db}
}

const overtimeRuleColumns = `
	id, name, description, apply_on_weekday, apply_on_weekend, apply_on_holiday,
	departments, daily_regular_hours,
	weekday_multiplier, weekend_multiplier, holiday_multiplier,
	night_shift_start_time, night_shift_end_time, night_shift_multiplier,
	max_daily_overtime, max_weekly_overtime, max_monthly_overtime,
	priority, is_active, valid_from, valid_until, created_at, updated_at`

// GetByID implements overtime.OvertimeRuleRepository.
func (r *overtimeRuleRepository) GetByID(ctx context.Context, id string) (*overtime.OvertimeRule, error) {
	query := `SELECT ` + overtimeRuleColumns + ` FROM overtime_rules WHERE id = $1`

	rule, err := scanOvertimeRule(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, overtime.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get overtime rule: %w", err)
	}
	return rule, nil
}

// ListActiveForDate implements overtime.OvertimeRuleRepository.
func (r *overtimeRuleRepository) ListActiveForDate(ctx context.Context, date time.Time) ([]overtime.OvertimeRule, error) {
	query := `
		SELECT ` + overtimeRuleColumns + `
		FROM overtime_rules
		WHERE is_active = true
		  AND (valid_from IS NULL OR valid_from <= $1)
		  AND (valid_until IS NULL OR valid_until >= $1)
		ORDER BY priority DESC
	`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list active overtime rules: %w", err)
	}
	defer rows.Close()

	var rules []overtime.OvertimeRule
	for rows.Next() {
		rule, err := scanOvertimeRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func scanOvertimeRule(row pgx.Row) (*overtime.OvertimeRule, error) {
	var rule overtime.OvertimeRule
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Description,
		&rule.ApplyOnWeekday, &rule.ApplyOnWeekend, &rule.ApplyOnHoliday,
		&rule.Departments, &rule.DailyRegularHours,
		&rule.WeekdayMultiplier, &rule.WeekendMultiplier, &rule.HolidayMultiplier,
		&rule.NightShiftStartTime, &rule.NightShiftEndTime, &rule.NightShiftMultiplier,
		&rule.MaxDailyOvertime, &rule.MaxWeeklyOvertime, &rule.MaxMonthlyOvertime,
		&rule.Priority, &rule.IsActive, &rule.ValidFrom, &rule.ValidUntil,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
