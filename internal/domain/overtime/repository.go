package overtime

import (
	"context"
	"time"
)

type OvertimeRuleRepository interface {
	GetByID(ctx context.Context, id string) (*OvertimeRule, error)
	// ListActiveForDate returns active rules valid on the date, ordered
	// by priority descending.
	ListActiveForDate(ctx context.Context, date time.Time) ([]OvertimeRule, error)
}
