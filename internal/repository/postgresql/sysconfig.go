package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mir-hr/attendance-backend-go/internal/domain/sysconfig"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/weekday"
)

type sysconfigRepository struct {
	db *database.DB
}

func NewSysconfigRepository(db *database.DB) sysconfig.Repository {
	return &sysconfigRepository{db: db}
}

// Get implements sysconfig.Repository. The table holds at most one row;
// a missing row is not an error.
func (r *sysconfigRepository) Get(ctx context.Context) (*sysconfig.SystemConfig, error) {
	query := `
		SELECT id, system_name, weekend_days, default_work_hours, timezone,
		       minimum_break_minutes, maximum_break_minutes, default_shift_id,
		       created_at, updated_at
		FROM system_config
		LIMIT 1
	`
	var cfg sysconfig.SystemConfig
	var weekendDays []int
	err := r.db.QueryRow(ctx, query).Scan(
		&cfg.ID, &cfg.SystemName, &weekendDays, &cfg.DefaultWorkHours, &cfg.Timezone,
		&cfg.MinimumBreakMinutes, &cfg.MaximumBreakMinutes, &cfg.DefaultShiftID,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get system config: %w", err)
	}
	cfg.WeekendDays = weekday.FromInts(weekendDays)
	return &cfg, nil
}
