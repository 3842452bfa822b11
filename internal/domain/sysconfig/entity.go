package sysconfig

import (
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/pkg/weekday"
)

// SystemConfig is the single-row system configuration. It is loaded once
// per operation and passed into resolvers explicitly rather than read
// through a global.
type SystemConfig struct {
	ID         string
	SystemName string

	// WeekendDays is the system-wide default weekend set, the last
	// configurable level of the weekend precedence cascade.
	WeekendDays weekday.Set

	DefaultWorkHours float64
	Timezone         string

	// Break detection bounds in minutes.
	MinimumBreakMinutes int
	MaximumBreakMinutes int

	DefaultShiftID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
