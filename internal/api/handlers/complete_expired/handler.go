package complete_expired

import (
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/complete-expired
// Внутренний эндпоинт для внешнего планировщика; тот же проход выполняет фоновый sweeper
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CompleteExpired(r.Context())
	if err != nil {
		h.logger.Error("POST /bookings/complete-expired - Failed to complete bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings/complete-expired - Completed %d bookings", result.Completed)
	handlers.RespondJSON(w, http.StatusOK, result)
}
