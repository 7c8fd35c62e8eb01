package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.EndTime.Sub(req.StartTime) > domain.MaxBookingLengthMinutes*time.Minute {
		return fmt.Errorf("%w: booking must not exceed %d minutes", ErrInvalidInput, domain.MaxBookingLengthMinutes)
	}

	return nil
}

// validateBooking проверяет владельца и статус переносимого бронирования
func validateBooking(booking *domain.Booking, userID int64) error {
	if booking.UserID != userID {
		return ErrAccessDenied
	}
	if !booking.CanBeRescheduled() {
		return fmt.Errorf("%w: status %s", ErrNotReschedulable, booking.Status)
	}
	return nil
}
