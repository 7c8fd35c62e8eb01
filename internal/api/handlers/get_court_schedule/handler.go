package get_court_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgInvalidParams  = "некорректные параметры запроса"
	msgCourtNotFound  = "корт не найден"
)

type Handler struct {
	service CourtService
	logger  Logger
}

func NewHandler(service CourtService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/schedule
// Query params: from (YYYY-MM-DD), days (опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.ParseIDVar(mux.Vars(r), "courtId")
	if err != nil {
		h.logger.Warn("GET /courts/{id}/schedule - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	serviceReq, err := ToServiceRequest(courtID, r.URL.Query().Get("from"), r.URL.Query().Get("days"))
	if err != nil {
		h.logger.Warn("GET /courts/{id}/schedule - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetCourtSchedule(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/schedule - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, courts.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/schedule - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /courts/{id}/schedule - Failed to get schedule: court_id=%d, error=%v",
				courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/schedule - Schedule retrieved successfully: court_id=%d, days=%d",
		courtID, len(result.Upcoming))
	handlers.RespondJSON(w, http.StatusOK, result)
}
