package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
)

func TestPairSessionsSimpleDay(t *testing.T) {
	events := []attendance.PunchEvent{
		punchAt(t, "IN", "09:00"),
		punchAt(t, "OUT", "12:00"),
		punchAt(t, "IN", "13:00"),
		punchAt(t, "OUT", "18:00"),
	}

	sessions, open := pairSessions(events)
	require.Len(t, sessions, 2)
	assert.Nil(t, open)
	assert.Equal(t, 9, sessions[0].in.Timestamp.Hour())
	assert.Equal(t, 12, sessions[0].out.Timestamp.Hour())
	assert.Equal(t, 13, sessions[1].in.Timestamp.Hour())
	assert.Equal(t, 18, sessions[1].out.Timestamp.Hour())
}

func TestPairSessionsTrailingOpenIn(t *testing.T) {
	events := []attendance.PunchEvent{
		punchAt(t, "IN", "09:00"),
		punchAt(t, "OUT", "17:00"),
		punchAt(t, "IN", "22:00"),
	}

	sessions, open := pairSessions(events)
	require.Len(t, sessions, 1)
	require.NotNil(t, open)
	assert.Equal(t, 22, open.Timestamp.Hour())
}

func TestPairSessionsRepeatedInSupersedes(t *testing.T) {
	events := []attendance.PunchEvent{
		punchAt(t, "IN", "09:00"),
		punchAt(t, "IN", "09:05"),
		punchAt(t, "OUT", "17:00"),
	}

	sessions, open := pairSessions(events)
	require.Len(t, sessions, 1)
	assert.Nil(t, open)
	// The later duplicate IN wins the pairing.
	assert.Equal(t, 5, sessions[0].in.Timestamp.Minute())
}

func TestPairSessionsLeadingOutIgnored(t *testing.T) {
	events := []attendance.PunchEvent{
		punchAt(t, "OUT", "06:00"),
		punchAt(t, "IN", "09:00"),
		punchAt(t, "OUT", "17:00"),
	}

	sessions, open := pairSessions(events)
	require.Len(t, sessions, 1)
	assert.Nil(t, open)
	assert.Equal(t, 9, sessions[0].in.Timestamp.Hour())
}

func TestPairSessionsUnsortedInput(t *testing.T) {
	events := []attendance.PunchEvent{
		punchAt(t, "OUT", "17:00"),
		punchAt(t, "IN", "09:00"),
	}

	sessions, open := pairSessions(events)
	require.Len(t, sessions, 1)
	assert.Nil(t, open)
	assert.Equal(t, 9, sessions[0].in.Timestamp.Hour())
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, 6, 3, 23, 45, 12, 0, time.UTC)
	d := dateOf(ts)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), d)
}

func TestProcessUnprocessedLogsCreatesDailyRecord(t *testing.T) {
	fx := newReconcilerFixture(employee.Employee{ID: "emp-1", IsActive: true})
	fx.addPunch(t, "ev-1", "emp-1", "IN", "2025-06-03 09:00")
	fx.addPunch(t, "ev-2", "emp-1", "OUT", "2025-06-03 18:00")

	result, err := fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedRecords)
	assert.Equal(t, 2, result.ProcessedEvents)
	assert.Zero(t, result.FailedUnits)

	record := fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, record)
	assert.Equal(t, attendance.StatusPresent, record.Status)
	assert.InDelta(t, 9.0, record.TotalDuration, 0.0001)
	assert.InDelta(t, 8.0, record.WorkHours, 0.0001)
	assert.Equal(t, attendance.ShiftTypeDay, record.ShiftType)

	// A second run over the now-processed events changes nothing.
	again, err := fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{})
	require.NoError(t, err)
	assert.Zero(t, again.CreatedRecords)
	assert.Zero(t, again.UpdatedRecords)
	assert.Zero(t, again.ProcessedEvents)
	assert.Len(t, fx.records.records, 1)
}

func TestProcessUnprocessedLogsUpdatesExistingRecord(t *testing.T) {
	fx := newReconcilerFixture(employee.Employee{ID: "emp-1", IsActive: true})
	fx.addPunch(t, "ev-1", "emp-1", "IN", "2025-06-03 09:00")
	fx.addPunch(t, "ev-2", "emp-1", "OUT", "2025-06-03 12:00")

	_, err := fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{})
	require.NoError(t, err)

	// The afternoon punches arrive in a later batch and must fold into
	// the same record, never a second one.
	fx.addPunch(t, "ev-3", "emp-1", "IN", "2025-06-03 13:00")
	fx.addPunch(t, "ev-4", "emp-1", "OUT", "2025-06-03 18:00")

	result, err := fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{})
	require.NoError(t, err)
	assert.Zero(t, result.CreatedRecords)
	assert.Equal(t, 1, result.UpdatedRecords)
	assert.Equal(t, 2, result.ProcessedEvents)
	require.Len(t, fx.records.records, 1)

	record := fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, record)
	assert.Equal(t, 18, record.CheckOut.Hour())
	assert.InDelta(t, 9.0, record.TotalDuration, 0.0001)
	assert.InDelta(t, 1.0, record.BreakDuration, 0.0001)
	assert.InDelta(t, 8.0, record.WorkHours, 0.0001)
}

func TestProcessUnprocessedLogsOvernightLookahead(t *testing.T) {
	fx := newReconcilerFixture(employee.Employee{ID: "emp-1", IsActive: true})
	fx.addPunch(t, "ev-1", "emp-1", "IN", "2025-06-03 22:00")
	fx.addPunch(t, "ev-2", "emp-1", "OUT", "2025-06-04 06:00")

	result, err := fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedRecords)
	assert.Equal(t, 2, result.ProcessedEvents)
	require.Len(t, fx.records.records, 1)

	// The record anchors to the check-in date, not the check-out date.
	record := fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, record)
	assert.Equal(t, 4, record.CheckOut.Day())
	assert.InDelta(t, 8.0, record.TotalDuration, 0.0001)
}

func TestProcessUnprocessedLogsCompletesOpenOvernight(t *testing.T) {
	fx := newReconcilerFixture(employee.Employee{ID: "emp-1", IsActive: true})
	fx.addPunch(t, "ev-1", "emp-1", "IN", "2025-06-03 22:00")

	result, err := fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedRecords)

	record := fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, record)
	assert.Nil(t, record.CheckOut)

	// The matching OUT lands the next morning: it must complete the open
	// record from the day before instead of opening a new one.
	fx.addPunch(t, "ev-2", "emp-1", "OUT", "2025-06-04 06:00")

	result, err = fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{})
	require.NoError(t, err)
	assert.Zero(t, result.CreatedRecords)
	assert.Equal(t, 1, result.UpdatedRecords)
	assert.Equal(t, 1, result.ProcessedEvents)
	require.Len(t, fx.records.records, 1)

	record = fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, record)
	require.NotNil(t, record.CheckOut)
	assert.Equal(t, 6, record.CheckOut.Hour())
	assert.InDelta(t, 8.0, record.TotalDuration, 0.0001)
	assert.InDelta(t, 8.0, record.WorkHours, 0.0001)
}

func TestProcessUnprocessedLogsSynthesizesAbsences(t *testing.T) {
	fx := newReconcilerFixture(employee.Employee{ID: "emp-1", IsActive: true})
	fx.employees.employees["emp-2"] = employee.Employee{ID: "emp-2"}
	fx.calendar.holidays["2025-06-05"] = true
	fx.calendar.weekends["2025-06-07"] = true
	fx.addPunch(t, "ev-1", "emp-1", "IN", "2025-06-03 09:00")
	fx.addPunch(t, "ev-2", "emp-1", "OUT", "2025-06-03 18:00")

	from, to := "2025-06-03", "2025-06-07"
	result, err := fx.svc.ProcessUnprocessedLogs(context.Background(), &attendance.ProcessLogsRequest{
		StartDate: &from,
		EndDate:   &to,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedRecords)

	// Absences fill only the working days without a record; holidays,
	// weekends and inactive employees stay untouched.
	assert.Equal(t, 2, result.AbsentRecords)
	for _, day := range []int{4, 6} {
		record := fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC))
		require.NotNil(t, record)
		assert.Equal(t, attendance.StatusAbsent, record.Status)
	}
	assert.Nil(t, fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, fx.records.byEmployeeAndDate("emp-2", time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)))
}

func TestProcessSelectedLogsReconcilesTouchedDays(t *testing.T) {
	fx := newReconcilerFixture(employee.Employee{ID: "emp-1", IsActive: true})
	inID := "018f3a00-0000-7000-8000-000000000001"
	outID := "018f3a00-0000-7000-8000-000000000002"
	fx.addPunch(t, inID, "emp-1", "IN", "2025-06-03 09:00")
	fx.addPunch(t, outID, "emp-1", "OUT", "2025-06-03 18:00")
	fx.addPunch(t, "018f3a00-0000-7000-8000-000000000003", "emp-1", "IN", "2025-06-10 09:00")

	result, err := fx.svc.ProcessSelectedLogs(context.Background(), &attendance.ProcessSelectedRequest{
		EventIDs: []string{inID, outID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedRecords)
	assert.Equal(t, 2, result.ProcessedEvents)

	// Days the selection never touched stay unreconciled.
	require.Len(t, fx.records.records, 1)
	assert.Nil(t, fx.records.byEmployeeAndDate("emp-1", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))
}
