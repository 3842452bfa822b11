package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
)

// AttendanceJobs wires the reconciliation and overtime sweeps into the
// scheduler.
type AttendanceJobs struct {
	reconSvc  attendance.ReconciliationService
	engineSvc overtime.EngineService
}

func NewAttendanceJobs(reconSvc attendance.ReconciliationService, engineSvc overtime.EngineService) *AttendanceJobs {
	return &AttendanceJobs{
		reconSvc:  reconSvc,
		engineSvc: engineSvc,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, processInterval, overtimeInterval time.Duration) {
	scheduler.AddJob("process_punch_logs", processInterval, j.ProcessPunchLogs)
	scheduler.AddJob("overtime_sweep", overtimeInterval, j.OvertimeSweep)
}

// ProcessPunchLogs drains the unprocessed punch backlog.
func (j *AttendanceJobs) ProcessPunchLogs(ctx context.Context) error {
	result, err := j.reconSvc.ProcessUnprocessedLogs(ctx, &attendance.ProcessLogsRequest{})
	if err != nil {
		return fmt.Errorf("process punch logs: %w", err)
	}

	if result.ProcessedEvents > 0 || result.FailedUnits > 0 {
		slog.Info("Cron: punch logs processed",
			"processed_events", result.ProcessedEvents,
			"created_records", result.CreatedRecords,
			"updated_records", result.UpdatedRecords,
			"failed_units", result.FailedUnits)
	}
	return nil
}

// OvertimeSweep re-runs the overtime engine over the last seven days to
// pick up records whose credit was missed by the best-effort trigger.
func (j *AttendanceJobs) OvertimeSweep(ctx context.Context) error {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)

	result, err := j.engineSvc.ProcessRecords(ctx, &overtime.RecalculateRequest{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("overtime sweep: %w", err)
	}

	if result.UpdatedRecords > 0 {
		slog.Info("Cron: overtime sweep completed",
			"processed", result.ProcessedRecords,
			"updated", result.UpdatedRecords,
			"skipped", result.SkippedRecords)
	}
	return nil
}
