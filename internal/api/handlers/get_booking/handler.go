package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование корта не найдено"
	msgForbidden        = "бронирование корта принадлежит другому пользователю"

	codeNotFound  = "booking_not_found"
	codeForbidden = "booking_forbidden"
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

// Handle GET /api/v1/bookings/{bookingId}
// Бронирование видит только его владелец (X-User-ID)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.ParseIDVar(mux.Vars(r), "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID: booking_id=%d", bookingID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		h.respondError(w, bookingID, userID, err)
		return
	}

	h.logResolved(booking, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) respondError(w http.ResponseWriter, bookingID, userID int64, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("GET /bookings/{id} - Court booking not found: booking_id=%d, user_id=%d", bookingID, userID)
		handlers.RespondErrorWithCode(w, http.StatusNotFound, msgNotFound, codeNotFound)

	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("GET /bookings/{id} - Court booking of another user: booking_id=%d, user_id=%d", bookingID, userID)
		handlers.RespondErrorWithCode(w, http.StatusForbidden, msgForbidden, codeForbidden)

	default:
		h.logger.Error("GET /bookings/{id} - Failed to load court booking: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}

func (h *Handler) logResolved(booking *models.BookingResponse, userID int64) {
	h.logger.Info("GET /bookings/{id} - Court booking retrieved: booking_id=%d, court_id=%d, user_id=%d, interval=%s-%s, status=%s",
		booking.ID, booking.CourtID, userID, booking.StartTime, booking.EndTime, booking.Status)
}
