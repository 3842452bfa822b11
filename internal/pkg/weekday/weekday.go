package weekday

import (
	"strconv"
	"strings"
	"time"
)

// Day is a weekday number with Monday = 0 and Sunday = 6, matching the
// convention the punch devices and importers deliver.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = map[string]Day{
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
	"sunday":    Sunday,
	"mon":       Monday,
	"tue":       Tuesday,
	"wed":       Wednesday,
	"thu":       Thursday,
	"fri":       Friday,
	"sat":       Saturday,
	"sun":       Sunday,
}

// FromTime converts a date to its Day. Go numbers Sunday as 0; this
// shifts to the Monday=0 convention used everywhere else.
func FromTime(t time.Time) Day {
	return Day((int(t.Weekday()) + 6) % 7)
}

// Set is an ordered set of weekend days. A nil Set means "not
// configured" and defers to the next level of the weekend-day
// precedence cascade; an empty non-nil Set means the same.
type Set []Day

// FromInts builds a Set from raw weekday numbers, dropping anything
// outside 0-6. Returns nil when nothing valid remains.
func FromInts(values []int) Set {
	var s Set
	for _, v := range values {
		if v < 0 || v > 6 {
			continue
		}
		d := Day(v)
		if !s.Contains(d) {
			s = append(s, d)
		}
	}
	return s
}

// Parse normalizes the representations weekend-day configuration has
// historically arrived in: comma-separated numbers ("5,6"), day names
// ("saturday,sunday"), or a mix. Returns nil for unparseable input.
func Parse(raw string) Set {
	var s Set
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			if n >= 0 && n <= 6 && !s.Contains(Day(n)) {
				s = append(s, Day(n))
			}
			continue
		}
		if d, ok := dayNames[part]; ok && !s.Contains(d) {
			s = append(s, d)
		}
	}
	return s
}

// DefaultWeekend is the hard-coded Saturday/Sunday fallback used when
// no level of the configuration cascade resolves.
func DefaultWeekend() Set {
	return Set{Saturday, Sunday}
}

// Contains reports whether the set includes the day.
func (s Set) Contains(d Day) bool {
	for _, v := range s {
		if v == d {
			return true
		}
	}
	return false
}

// Empty reports whether the set carries no configuration.
func (s Set) Empty() bool {
	return len(s) == 0
}

// Ints returns the set as plain weekday numbers for API responses and
// database storage.
func (s Set) Ints() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s))
	for i, d := range s {
		out[i] = int(d)
	}
	return out
}
