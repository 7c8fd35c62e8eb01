package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC 3339 (2025-06-16T10:00:00Z)"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "нельзя создать бронирование от имени другого пользователя"
	msgSlotNotAvailable   = "slot already booked"
	msgCourtNotFound      = "корт не найден"
	msgUserNotFound       = "пользователь не найден"
	msgUserBlocked        = "пользователю запрещено бронирование"
	msgInvalidDate        = "нельзя забронировать время в прошлом"
	msgOutsideHours       = "интервал выходит за часы работы корта"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// userId в теле необязателен; если указан, должен совпадать с X-User-ID
	if req.UserID == 0 {
		req.UserID = authUserID
	}
	if req.UserID != authUserID {
		h.logger.Warn("POST /bookings - User mismatch: body user_id=%d, header user_id=%d", req.UserID, authUserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondErrorWithCode(w, http.StatusBadRequest, msgInvalidTime, "INVALID_INPUT")
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, court_id=%d", req.UserID, req.CourtID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%d", req.UserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createBooking.ErrUserBlocked):
			h.logger.Warn("POST /bookings - User blocked: user_id=%d", req.UserID)
			handlers.RespondForbidden(w, msgUserBlocked)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Start in the past: user_id=%d, court_id=%d", req.UserID, req.CourtID)
			handlers.RespondErrorWithCode(w, http.StatusBadRequest, msgInvalidDate, "INVALID_DATE")

		case errors.Is(err, createBooking.ErrOutsideOperatingHours):
			h.logger.Warn("POST /bookings - Outside operating hours: court_id=%d", req.CourtID)
			handlers.RespondErrorWithCode(w, http.StatusBadRequest, msgOutsideHours, "OUTSIDE_OPERATING_HOURS")

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondErrorWithCode(w, http.StatusBadRequest, msgInvalidInput, "INVALID_INPUT")

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, court_id=%d, error=%v",
				req.UserID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, court_id=%d",
		result.ID, req.UserID, req.CourtID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
