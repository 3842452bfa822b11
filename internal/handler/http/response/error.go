package response

import (
	"errors"
	"net/http"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/domain/device"
	"github.com/mir-hr/attendance-backend-go/internal/domain/employee"
	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/mir-hr/attendance-backend-go/internal/domain/shift"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrPunchEventNotFound):
		NotFound(w, "Punch event not found")
	case errors.Is(err, attendance.ErrInvalidDirection):
		BadRequest(w, "Invalid punch direction", nil)
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, "Invalid date range", nil)
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this employee and date")
	case errors.Is(err, attendance.ErrNoUnprocessedEvents):
		NotFound(w, "No unprocessed punch events found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Device domain errors
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Attendance device not found")
	case errors.Is(err, device.ErrDeviceInactive):
		Forbidden(w, "Attendance device is inactive")
	case errors.Is(err, device.ErrInvalidAPIKey):
		Unauthorized(w, "Invalid device API key")

	// Overtime domain errors
	case errors.Is(err, overtime.ErrRuleNotFound):
		NotFound(w, "Overtime rule not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
