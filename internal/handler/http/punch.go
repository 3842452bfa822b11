package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mir-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/mir-hr/attendance-backend-go/internal/handler/http/response"
)

type PunchHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
}

type punchHandlerImpl struct {
	ingestionSvc attendance.IngestionService
}

func NewPunchHandler(ingestionSvc attendance.IngestionService) PunchHandler {
	return &punchHandlerImpl{ingestionSvc: ingestionSvc}
}

// Punch implements PunchHandler.
func (h *punchHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.ingestionSvc.Punch(r.Context(), &req)
	if err != nil {
		slog.Error("Failed to record punch", "device_code", req.DeviceCode, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded", result)
}
