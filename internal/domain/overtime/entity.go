package overtime

import (
	"strings"
	"time"
)

// OvertimeRule parameterizes how overtime hours are credited and priced.
// Rules are matched per record by department, validity window and
// priority; the matched rule's ID is pinned on the record so later
// recalculations reuse it.
type OvertimeRule struct {
	ID          string
	Name        string
	Description *string

	ApplyOnWeekday bool
	ApplyOnWeekend bool
	ApplyOnHoliday bool

	// Departments is a comma-separated list; empty means all.
	Departments *string

	DailyRegularHours float64

	WeekdayMultiplier float64
	WeekendMultiplier float64
	HolidayMultiplier float64

	NightShiftStartTime  *time.Time
	NightShiftEndTime    *time.Time
	NightShiftMultiplier float64

	MaxDailyOvertime   float64
	MaxWeeklyOvertime  float64
	MaxMonthlyOvertime float64

	Priority   int
	IsActive   bool
	ValidFrom  *time.Time
	ValidUntil *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesToDepartment reports whether the rule covers the department.
// An empty department list covers everyone; matching is case-insensitive
// on the comma-separated entries.
func (r *OvertimeRule) AppliesToDepartment(department string) bool {
	if r.Departments == nil || strings.TrimSpace(*r.Departments) == "" {
		return true
	}
	want := strings.ToLower(strings.TrimSpace(department))
	for _, d := range strings.Split(*r.Departments, ",") {
		if strings.ToLower(strings.TrimSpace(d)) == want {
			return true
		}
	}
	return false
}

// ValidOn reports whether the date falls inside the rule's validity
// window. Nil bounds are open.
func (r *OvertimeRule) ValidOn(date time.Time) bool {
	if r.ValidFrom != nil && date.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && date.After(*r.ValidUntil) {
		return false
	}
	return true
}

// Multiplier resolves the pay multiplier for a day. Holiday takes
// precedence over weekend, weekend over weekday; a tier whose apply_on
// flag is off falls through to the next, ending at 1.0. A holiday the
// rule does not apply to therefore still earns the weekday multiplier
// when apply_on_weekday is set and the date is not a weekend.
func (r *OvertimeRule) Multiplier(isHoliday, isWeekend bool) float64 {
	if isHoliday && r.ApplyOnHoliday {
		return r.HolidayMultiplier
	}
	if isWeekend && r.ApplyOnWeekend {
		return r.WeekendMultiplier
	}
	if !isWeekend && r.ApplyOnWeekday {
		return r.WeekdayMultiplier
	}
	return 1.0
}

// NightShiftDifferential blends the base multiplier with the night
// multiplier, weighted by how much of the worked span overlaps the
// rule's night window. Returns base unchanged when no window is defined
// or nothing overlaps.
func (r *OvertimeRule) NightShiftDifferential(checkIn, checkOut time.Time, base float64) float64 {
	if r.NightShiftStartTime == nil || r.NightShiftEndTime == nil {
		return base
	}

	y, m, d := checkIn.Date()
	nightStart := time.Date(y, m, d,
		r.NightShiftStartTime.Hour(), r.NightShiftStartTime.Minute(), 0, 0, checkIn.Location())
	nightEnd := time.Date(y, m, d,
		r.NightShiftEndTime.Hour(), r.NightShiftEndTime.Minute(), 0, 0, checkIn.Location())
	if nightEnd.Before(nightStart) {
		nightEnd = nightEnd.Add(24 * time.Hour)
	}

	end := checkOut
	if end.Before(checkIn) {
		end = end.Add(24 * time.Hour)
	}

	total := end.Sub(checkIn).Hours()
	if total <= 0 {
		return base
	}

	overlapStart := checkIn
	if nightStart.After(overlapStart) {
		overlapStart = nightStart
	}
	overlapEnd := end
	if nightEnd.Before(overlapEnd) {
		overlapEnd = nightEnd
	}
	if !overlapEnd.After(overlapStart) {
		return base
	}

	nightHours := overlapEnd.Sub(overlapStart).Hours()
	regularHours := total - nightHours
	return (regularHours*base + nightHours*base*r.NightShiftMultiplier) / total
}
