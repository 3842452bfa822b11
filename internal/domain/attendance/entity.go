package attendance

import (
	"strings"
	"time"
)

// Punch directions. Devices and importers also deliver the legacy
// 'check_in'/'check_out' aliases; IsIn/IsOut accept both.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Attendance record statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half-day"
	StatusPending = "pending"
)

// Shift types assigned to a record.
const (
	ShiftTypeDay       = "day"
	ShiftTypeAfternoon = "afternoon"
	ShiftTypeNight     = "night"
	ShiftTypeUnknown   = "unknown"
)

// PunchEvent is a single raw IN/OUT signal from a device or import. It is
// immutable input: the core only flips IsProcessed and sets the record
// back-reference, never deletes.
type PunchEvent struct {
	ID                 string
	EmployeeID         string
	DeviceID           *string
	Timestamp          time.Time
	Direction          string
	IsProcessed        bool
	AttendanceRecordID *string
	Location           *string
	CreatedAt          time.Time
}

// IsIn reports whether the event is an entry punch, accepting the
// 'check_in' alias used by CSV imports.
func (e PunchEvent) IsIn() bool {
	d := strings.ToLower(e.Direction)
	return d == "in" || d == "check_in"
}

// IsOut reports whether the event is an exit punch, accepting the
// 'check_out' alias.
func (e PunchEvent) IsOut() bool {
	d := strings.ToLower(e.Direction)
	return d == "out" || d == "check_out"
}

// NormalizeDirection maps any accepted direction spelling to the
// canonical IN/OUT constants. Returns "" for unrecognized input.
func NormalizeDirection(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "in", "check_in":
		return DirectionIn
	case "out", "check_out":
		return DirectionOut
	}
	return ""
}

// AttendanceRecord is the canonical daily attendance fact: at most one
// row per (employee_id, date). Created by the log reconciler, mutated by
// the overtime engine, never auto-deleted.
type AttendanceRecord struct {
	ID             string
	EmployeeID     string
	ShiftID        *string
	OvertimeRuleID *string
	Date           time.Time
	CheckIn        *time.Time
	CheckOut       *time.Time
	Status         string
	IsHoliday      bool
	IsWeekend      bool

	// WorkHours = TotalDuration - BreakDuration, floored at 0.
	WorkHours float64

	// Overtime fields. OvertimeHours is always the sum of the three
	// category buckets; OvertimeWeighted = OvertimeHours * OvertimeRate.
	OvertimeHours        float64
	OvertimeRate         float64
	OvertimeNightHours   float64
	RegularOvertimeHours float64
	WeekendOvertimeHours float64
	HolidayOvertimeHours float64
	OvertimeWeighted     float64

	BreakDuration float64
	// BreakCalculated marks BreakDuration as the multi-break sum from the
	// estimator, which then takes precedence over BreakStart/BreakEnd.
	BreakCalculated bool
	BreakStart      *time.Time
	BreakEnd        *time.Time

	LateMinutes        int
	GracePeriodMinutes int

	ShiftType     string
	TotalDuration float64

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalDurationHours computes check-out minus check-in in hours, rolling
// the check-out forward a day when it lands before the check-in
// (overnight shifts).
func TotalDurationHours(checkIn, checkOut time.Time) float64 {
	end := checkOut
	if end.Before(checkIn) {
		end = end.Add(24 * time.Hour)
	}
	return end.Sub(checkIn).Hours()
}

// CalculateWorkHours recomputes WorkHours from the punch span minus the
// break, handling overnight spans. Break duration resolves in order:
// the estimator's multi-break sum when BreakCalculated is set, the
// stored break window, then the stored BreakDuration.
func (r *AttendanceRecord) CalculateWorkHours() float64 {
	if r.CheckIn == nil || r.CheckOut == nil {
		return 0
	}

	duration := TotalDurationHours(*r.CheckIn, *r.CheckOut)

	var breakHours float64
	switch {
	case r.BreakCalculated:
		breakHours = r.BreakDuration
	case r.BreakStart != nil && r.BreakEnd != nil:
		breakHours = TotalDurationHours(*r.BreakStart, *r.BreakEnd)
		r.BreakDuration = breakHours
	default:
		breakHours = r.BreakDuration
	}

	r.WorkHours = duration - breakHours
	if r.WorkHours < 0 {
		r.WorkHours = 0
	}
	return r.WorkHours
}
