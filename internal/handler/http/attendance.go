package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	ProcessLogs(w http.ResponseWriter, r *http.Request)
	ProcessSelected(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	reconSvc attendance.ReconciliationService
}

func NewAttendanceHandler(reconSvc attendance.ReconciliationService) AttendanceHandler {
	return &attendanceHandlerImpl{reconSvc: reconSvc}
}

// ProcessLogs implements AttendanceHandler.
func (h *attendanceHandlerImpl) ProcessLogs(w http.ResponseWriter, r *http.Request) {
	var req attendance.ProcessLogsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reconSvc.ProcessUnprocessedLogs(r.Context(), &req)
	if err != nil {
		slog.Error("Failed to process punch logs", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch logs processed", result)
}

// ProcessSelected implements AttendanceHandler.
func (h *attendanceHandlerImpl) ProcessSelected(w http.ResponseWriter, r *http.Request) {
	var req attendance.ProcessSelectedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reconSvc.ProcessSelectedLogs(r.Context(), &req)
	if err != nil {
		slog.Error("Failed to process selected punch logs", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Selected punch logs processed", result)
}

// ListRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter := attendance.RecordFilter{}

	q := r.URL.Query()
	if v := q.Get("employee_id"); v != "" {
		if !validator.IsValidUUID(v) {
			response.BadRequest(w, "employee_id must be a valid UUID", nil)
			return
		}
		filter.EmployeeID = &v
	}
	if v := q.Get("start_date"); v != "" {
		d, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "start_date must be in YYYY-MM-DD format", nil)
			return
		}
		filter.StartDate = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "end_date must be in YYYY-MM-DD format", nil)
			return
		}
		filter.EndDate = &d
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	records, total, err := h.reconSvc.ListRecords(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list attendance records", "error", err)
		response.HandleError(w, err)
		return
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	response.SuccessWithMeta(w, records, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reconSvc.Stats(r.Context())
	if err != nil {
		slog.Error("Failed to read processing stats", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
