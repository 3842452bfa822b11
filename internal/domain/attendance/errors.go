package attendance

import "errors"

var (
	ErrRecordNotFound         = errors.New("attendance record not found")
	ErrPunchEventNotFound     = errors.New("punch event not found")
	ErrInvalidDirection       = errors.New("invalid punch direction")
	ErrInvalidDateRange       = errors.New("invalid date range")
	ErrDuplicateRecord        = errors.New("attendance record already exists for employee and date")
	ErrEmployeeRequired       = errors.New("employee id is required")
	ErrTimestampRequired      = errors.New("timestamp is required")
	ErrNoUnprocessedEvents    = errors.New("no unprocessed punch events found")
	ErrReconciliationDisabled = errors.New("attendance reconciliation is disabled")
)
