package attendance

import (
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH INGESTION DTOs
// ========================================

type PunchRequest struct {
	EmployeeCode string  `json:"employee_code"`
	DeviceCode   string  `json:"device_code"`
	APIKey       string  `json:"api_key"`
	Timestamp    string  `json:"timestamp"`
	Direction    string  `json:"direction"`
	Location     *string `json:"location,omitempty"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	}

	if validator.IsEmpty(r.DeviceCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_code",
			Message: "device_code is required",
		})
	}

	if validator.IsEmpty(r.APIKey) {
		errs = append(errs, validator.ValidationError{
			Field:   "api_key",
			Message: "api_key is required",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, valid := validator.IsValidDateTime(r.Timestamp); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be a valid ISO8601 datetime",
		})
	}

	if NormalizeDirection(r.Direction) == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "direction",
			Message: "direction must be one of: IN, OUT, check_in, check_out",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	EventID    string `json:"event_id"`
	EmployeeID string `json:"employee_id"`
	Direction  string `json:"direction"`
	Timestamp  string `json:"timestamp"`
}

// ========================================
// RECONCILIATION DTOs
// ========================================

type ProcessLogsRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

func (r *ProcessLogsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != nil {
		if _, valid := validator.IsValidDate(*r.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.EndDate != nil {
		if _, valid := validator.IsValidDate(*r.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ProcessSelectedRequest struct {
	EventIDs []string `json:"event_ids"`
}

func (r *ProcessSelectedRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EventIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "event_ids",
			Message: "event_ids is required",
		})
	}

	for _, id := range r.EventIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "event_ids",
				Message: "event_ids must contain valid UUIDs",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ProcessLogsResult summarizes one reconciliation run.
type ProcessLogsResult struct {
	ProcessedEvents int      `json:"processed_events"`
	CreatedRecords  int      `json:"created_records"`
	UpdatedRecords  int      `json:"updated_records"`
	AbsentRecords   int      `json:"absent_records"`
	FailedUnits     int      `json:"failed_units"`
	Errors          []string `json:"errors,omitempty"`
}

// ========================================
// QUERY DTOs
// ========================================

type RecordFilter struct {
	EmployeeID *string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *string
	Page       int
	PageSize   int
}

type RecordResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	Date                 string  `json:"date"`
	CheckIn              *string `json:"check_in"`
	CheckOut             *string `json:"check_out"`
	Status               string  `json:"status"`
	IsHoliday            bool    `json:"is_holiday"`
	IsWeekend            bool    `json:"is_weekend"`
	ShiftType            string  `json:"shift_type"`
	WorkHours            float64 `json:"work_hours"`
	BreakDuration        float64 `json:"break_duration"`
	LateMinutes          int     `json:"late_minutes"`
	OvertimeHours        float64 `json:"overtime_hours"`
	OvertimeRate         float64 `json:"overtime_rate"`
	OvertimeWeighted     float64 `json:"overtime_weighted"`
	RegularOvertimeHours float64 `json:"regular_overtime_hours"`
	WeekendOvertimeHours float64 `json:"weekend_overtime_hours"`
	HolidayOvertimeHours float64 `json:"holiday_overtime_hours"`
	OvertimeNightHours   float64 `json:"overtime_night_hours"`
}

// NewRecordResponse flattens an AttendanceRecord for the HTTP surface.
func NewRecordResponse(r *AttendanceRecord) RecordResponse {
	resp := RecordResponse{
		ID:                   r.ID,
		EmployeeID:           r.EmployeeID,
		Date:                 r.Date.Format("2006-01-02"),
		Status:               r.Status,
		IsHoliday:            r.IsHoliday,
		IsWeekend:            r.IsWeekend,
		ShiftType:            r.ShiftType,
		WorkHours:            r.WorkHours,
		BreakDuration:        r.BreakDuration,
		LateMinutes:          r.LateMinutes,
		OvertimeHours:        r.OvertimeHours,
		OvertimeRate:         r.OvertimeRate,
		OvertimeWeighted:     r.OvertimeWeighted,
		RegularOvertimeHours: r.RegularOvertimeHours,
		WeekendOvertimeHours: r.WeekendOvertimeHours,
		HolidayOvertimeHours: r.HolidayOvertimeHours,
		OvertimeNightHours:   r.OvertimeNightHours,
	}
	if r.CheckIn != nil {
		s := r.CheckIn.Format("2006-01-02 15:04:05")
		resp.CheckIn = &s
	}
	if r.CheckOut != nil {
		s := r.CheckOut.Format("2006-01-02 15:04:05")
		resp.CheckOut = &s
	}
	return resp
}

// ProcessingStats reports the punch backlog and the shape of the
// reconciled records, for the admin processing screen.
type ProcessingStats struct {
	TotalEvents       int64   `json:"total_events"`
	ProcessedEvents   int64   `json:"processed_events"`
	UnprocessedEvents int64   `json:"unprocessed_events"`
	PendingEmployees  int64   `json:"pending_employees"`
	OldestUnprocessed *string `json:"oldest_unprocessed"`

	TotalRecords          int64 `json:"total_records"`
	DayShiftRecords       int64 `json:"day_shift_records"`
	AfternoonShiftRecords int64 `json:"afternoon_shift_records"`
	NightShiftRecords     int64 `json:"night_shift_records"`
	OvertimeRecords       int64 `json:"overtime_records"`
	ExcessiveBreakRecords int64 `json:"excessive_break_records"`
}
