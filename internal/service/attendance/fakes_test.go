package attendance

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

// In-memory punch event store mirroring the postgresql repository's
// filtering behavior.
type fakePunchRepo struct {
	events map[string]*attendance.PunchEvent
}

func newFakePunchRepo() *fakePunchRepo {
	return &fakePunchRepo{events: map[string]*attendance.PunchEvent{}}
}

func (f *fakePunchRepo) Create(_ context.Context, _ database.Querier, event *attendance.PunchEvent) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakePunchRepo) UnprocessedEmployeeDays(_ context.Context, from, to *time.Time, limit int) ([]attendance.EmployeeDay, error) {
	seen := make(map[attendance.EmployeeDay]bool)
	var days []attendance.EmployeeDay
	for _, ev := range f.events {
		if ev.IsProcessed {
			continue
		}
		d := dateOf(ev.Timestamp)
		if from != nil && d.Before(*from) {
			continue
		}
		if to != nil && d.After(*to) {
			continue
		}
		day := attendance.EmployeeDay{EmployeeID: ev.EmployeeID, Date: d}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool {
		if !days[i].Date.Equal(days[j].Date) {
			return days[i].Date.Before(days[j].Date)
		}
		return days[i].EmployeeID < days[j].EmployeeID
	})
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

func (f *fakePunchRepo) ListForEmployeeOnDate(_ context.Context, employeeID string, date time.Time) ([]attendance.PunchEvent, error) {
	var out []attendance.PunchEvent
	for _, ev := range f.events {
		if ev.EmployeeID == employeeID && dateOf(ev.Timestamp).Equal(dateOf(date)) {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakePunchRepo) ListByIDs(_ context.Context, ids []string) ([]attendance.PunchEvent, error) {
	var out []attendance.PunchEvent
	for _, id := range ids {
		if ev, ok := f.events[id]; ok {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakePunchRepo) MarkProcessed(_ context.Context, _ database.Querier, ids []string, recordID string) error {
	for _, id := range ids {
		if ev, ok := f.events[id]; ok {
			ev.IsProcessed = true
			ev.AttendanceRecordID = &recordID
		}
	}
	return nil
}

func (f *fakePunchRepo) Stats(_ context.Context) (*attendance.ProcessingStats, error) {
	stats := &attendance.ProcessingStats{}
	for _, ev := range f.events {
		stats.TotalEvents++
		if ev.IsProcessed {
			stats.ProcessedEvents++
		} else {
			stats.UnprocessedEvents++
		}
	}
	return stats, nil
}

// In-memory attendance record store enforcing the (employee, date)
// unique constraint.
type fakeRecordRepo struct {
	records map[string]*attendance.AttendanceRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: map[string]*attendance.AttendanceRecord{}}
}

func (f *fakeRecordRepo) Create(_ context.Context, _ database.Querier, record *attendance.AttendanceRecord) error {
	for _, r := range f.records {
		if r.EmployeeID == record.EmployeeID && r.Date.Equal(record.Date) {
			return attendance.ErrDuplicateRecord
		}
	}
	clone := *record
	f.records[record.ID] = &clone
	return nil
}

func (f *fakeRecordRepo) Update(_ context.Context, _ database.Querier, record *attendance.AttendanceRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	clone := *record
	f.records[record.ID] = &clone
	return nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (*attendance.AttendanceRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) GetOpenOvernight(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) && r.CheckIn != nil && r.CheckOut == nil {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) ListRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListForRecalculation(_ context.Context, employeeID *string, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, r := range f.records {
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		if r.CheckIn == nil || r.CheckOut == nil {
			continue
		}
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) ListHolidayRecords(_ context.Context, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, r := range f.records {
		if r.IsHoliday && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) List(_ context.Context, _ attendance.RecordFilter) ([]attendance.AttendanceRecord, int64, error) {
	var out []attendance.AttendanceRecord
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

// byEmployeeAndDate is a test helper over the map-backed store.
func (f *fakeRecordRepo) byEmployeeAndDate(employeeID string, date time.Time) *attendance.AttendanceRecord {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			return r
		}
	}
	return nil
}

type fakeCalendar struct {
	holidays map[string]bool
	weekends map[string]bool
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{holidays: map[string]bool{}, weekends: map[string]bool{}}
}

func (f *fakeCalendar) Resolve(_ context.Context, _ *employee.Employee, date time.Time) (bool, bool, error) {
	key := date.Format("2006-01-02")
	return f.holidays[key], f.weekends[key], nil
}

func (f *fakeCalendar) EffectiveWeekendDays(_ context.Context, _ *employee.Employee, _ time.Time) ([]int, error) {
	return []int{5, 6}, nil
}

type reconcilerFixture struct {
	svc       *ReconcilerService
	punches   *fakePunchRepo
	records   *fakeRecordRepo
	calendar  *fakeCalendar
	employees *fakeEmployeeRepo
}

func newReconcilerFixture(emp employee.Employee) *reconcilerFixture {
	punches := newFakePunchRepo()
	records := newFakeRecordRepo()
	cal := newFakeCalendar()
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp}}
	shifts := &fakeShiftRepo{shifts: map[string]shift.Shift{}}

	svc := NewReconcilerService(nil, punches, records, employees, shifts,
		cal, NewClassifier(employees, shifts), nil)
	svc.runTx = func(_ context.Context, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}

	return &reconcilerFixture{
		svc:       svc,
		punches:   punches,
		records:   records,
		calendar:  cal,
		employees: employees,
	}
}

func (fx *reconcilerFixture) addPunch(t *testing.T, id, employeeID, direction, stamp string) {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", stamp)
	require.NoError(t, err)
	require.NoError(t, fx.punches.Create(context.Background(), nil, &attendance.PunchEvent{
		ID:         id,
		EmployeeID: employeeID,
		Direction:  direction,
		Timestamp:  ts,
	}))
}
