package holiday

import "time"

type Holiday struct {
	ID   string
	Name string
	Date time.Time

	// IsRecurring holidays match on (month, day) regardless of year.
	IsRecurring bool

	// IsEmployeeSpecific holidays apply only to EmployeeID; otherwise the
	// holiday is global.
	IsEmployeeSpecific bool
	EmployeeID         *string

	CreatedAt time.Time
}
