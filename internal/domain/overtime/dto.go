package overtime

import (
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/pkg/validator"
)

// Calculation is the engine's per-record outcome.
type Calculation struct {
	OvertimeHours        float64
	OvertimeRate         float64
	RegularOvertimeHours float64
	WeekendOvertimeHours float64
	HolidayOvertimeHours float64
	OvertimeNightHours   float64
	RuleID               *string
}

// Weighted returns hours scaled by the rate.
func (c Calculation) Weighted() float64 {
	return c.OvertimeHours * c.OvertimeRate
}

// Summary aggregates overtime over a week or month.
type Summary struct {
	EmployeeID           string  `json:"employee_id"`
	PeriodStart          string  `json:"period_start"`
	PeriodEnd            string  `json:"period_end"`
	TotalOvertimeHours   float64 `json:"total_overtime_hours"`
	WeightedAverageRate  float64 `json:"weighted_average_rate"`
	TotalWeightedHours   float64 `json:"total_weighted_hours"`
	RegularOvertimeHours float64 `json:"regular_overtime_hours"`
	WeekendOvertimeHours float64 `json:"weekend_overtime_hours"`
	HolidayOvertimeHours float64 `json:"holiday_overtime_hours"`
	DaysWithOvertime     int     `json:"days_with_overtime"`
}

type RecalculateRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Force      bool    `json:"force,omitempty"`
}

// Validate checks the optional fields' formats. An empty range is
// allowed: recalculation then covers all history, optionally scoped to
// one employee.
func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.StartDate) {
		if _, valid := validator.IsValidDate(r.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if !validator.IsEmpty(r.EndDate) {
		if _, valid := validator.IsValidDate(r.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) == 0 && !validator.IsEmpty(r.StartDate) && !validator.IsEmpty(r.EndDate) {
		start, _ := validator.IsValidDate(r.StartDate)
		end, _ := validator.IsValidDate(r.EndDate)
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not precede start_date",
			})
		}
	}

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Period resolves the effective date range. A missing start opens the
// range to all history; a missing end closes it at today.
func (r *RecalculateRequest) Period() (time.Time, time.Time) {
	var start time.Time
	if !validator.IsEmpty(r.StartDate) {
		start, _ = validator.IsValidDate(r.StartDate)
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if !validator.IsEmpty(r.EndDate) {
		end, _ = validator.IsValidDate(r.EndDate)
	}
	return start, end
}

// RecalculateResult summarizes a batch engine run.
type RecalculateResult struct {
	ProcessedRecords int      `json:"processed_records"`
	UpdatedRecords   int      `json:"updated_records"`
	SkippedRecords   int      `json:"skipped_records"`
	Errors           []string `json:"errors,omitempty"`
}
