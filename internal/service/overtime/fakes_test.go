package overtime

import (
	"context"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/database"
)

type fakeRecordRepo struct {
	records map[string]*attendance.AttendanceRecord
	updated int
}

func newFakeRecordRepo(records ...*attendance.AttendanceRecord) *fakeRecordRepo {
	f := &fakeRecordRepo{records: make(map[string]*attendance.AttendanceRecord)}
	for _, r := range records {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeRecordRepo) Create(_ context.Context, _ database.Querier, record *attendance.AttendanceRecord) error {
	f.records[record.ID] = record
	return nil
}

func (f *fakeRecordRepo) Update(_ context.Context, _ database.Querier, record *attendance.AttendanceRecord) error {
	f.records[record.ID] = record
	f.updated++
	return nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (*attendance.AttendanceRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, attendance.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) GetOpenOvernight(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) && r.CheckIn != nil && r.CheckOut == nil {
			return r, nil
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

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if emp, ok := f.employees[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (*shift.Shift, error) {
	sh, ok := f.shifts[id]
	if !ok {
		return nil, nil
	}
	return &sh, nil
}

type fakeRuleRepo struct {
	rules []overtime.OvertimeRule
}

func (f *fakeRuleRepo) GetByID(_ context.Context, id string) (*overtime.OvertimeRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == id {
			return &f.rules[i], nil
		}
	}
	return nil, overtime.ErrRuleNotFound
}

func (f *fakeRuleRepo) ListActiveForDate(_ context.Context, date time.Time) ([]overtime.OvertimeRule, error) {
	var out []overtime.OvertimeRule
	for _, r := range f.rules {
		if r.IsActive && r.ValidOn(date) {
			out = append(out, r)
		}
	}
	// Ordered by priority descending, matching the SQL query.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Priority > out[i].Priority {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

// fakeCalendar gives fixed holiday/weekend answers keyed by date.
type fakeCalendar struct {
	holidays map[string]bool
	weekends map[string]bool
}

func (f *fakeCalendar) Resolve(_ context.Context, _ *employee.Employee, date time.Time) (bool, bool, error) {
	key := date.Format("2006-01-02")
	return f.holidays[key], f.weekends[key], nil
}

func (f *fakeCalendar) EffectiveWeekendDays(_ context.Context, _ *employee.Employee, _ time.Time) ([]int, error) {
	return []int{5, 6}, nil
}
