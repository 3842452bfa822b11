package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mir-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/mir-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/mir-hr/attendance-backend-go/internal/pkg/validator"
)

type OvertimeHandler interface {
	Recalculate(w http.ResponseWriter, r *http.Request)
	RecalculateHolidays(w http.ResponseWriter, r *http.Request)
	WeeklySummary(w http.ResponseWriter, r *http.Request)
	MonthlySummary(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	engine     overtime.EngineService
	aggregator overtime.AggregatorService
}

func NewOvertimeHandler(engine overtime.EngineService, aggregator overtime.AggregatorService) OvertimeHandler {
	return &overtimeHandlerImpl{
		engine:     engine,
		aggregator: aggregator,
	}
}

// Recalculate implements OvertimeHandler.
func (h *overtimeHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req overtime.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.engine.ProcessRecords(r.Context(), &req)
	if err != nil {
		slog.Error("Failed to recalculate overtime", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime recalculated", result)
}

// RecalculateHolidays implements OvertimeHandler.
func (h *overtimeHandlerImpl) RecalculateHolidays(w http.ResponseWriter, r *http.Request) {
	var req overtime.RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.engine.RecalculateHolidayOvertime(r.Context(), &req)
	if err != nil {
		slog.Error("Failed to recalculate holiday overtime", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday overtime recalculated", result)
}

// WeeklySummary implements OvertimeHandler.
func (h *overtimeHandlerImpl) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	employeeID := q.Get("employee_id")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "employee_id must be a valid UUID", nil)
		return
	}

	day := time.Now().UTC()
	if v := q.Get("date"); v != "" {
		d, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		day = d
	}

	summary, err := h.aggregator.Weekly(r.Context(), employeeID, day)
	if err != nil {
		slog.Error("Failed to build weekly overtime summary", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// MonthlySummary implements OvertimeHandler.
func (h *overtimeHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	employeeID := q.Get("employee_id")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "employee_id must be a valid UUID", nil)
		return
	}

	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())

	if v := q.Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 2000 || parsed > 2100 {
			response.BadRequest(w, "year must be a valid four digit year", nil)
			return
		}
		year = parsed
	}
	if v := q.Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			response.BadRequest(w, "month must be between 1 and 12", nil)
			return
		}
		month = parsed
	}

	summary, err := h.aggregator.Monthly(r.Context(), employeeID, year, time.Month(month))
	if err != nil {
		slog.Error("Failed to build monthly overtime summary", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
