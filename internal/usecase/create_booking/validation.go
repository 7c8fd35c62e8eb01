package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса и возвращает статус создаваемого бронирования
func validateRequest(req *Request) (domain.BookingStatus, error) {
	if req.CourtID <= 0 {
		return "", fmt.Errorf("%w: courtId must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return "", fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return "", fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.EndTime.After(req.StartTime) {
		return "", fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.EndTime.Sub(req.StartTime) > domain.MaxBookingLengthMinutes*time.Minute {
		return "", fmt.Errorf("%w: booking must not exceed %d minutes", ErrInvalidInput, domain.MaxBookingLengthMinutes)
	}

	status := domain.StatusConfirmed
	if req.Status != nil {
		status = *req.Status
	}
	if status != domain.StatusPending && status != domain.StatusConfirmed {
		return "", fmt.Errorf("%w: status must be pending or confirmed", ErrInvalidInput)
	}

	return status, nil
}

// validateNotInPast проверяет, что бронирование начинается не раньше текущего момента
func validateNotInPast(start, now time.Time) error {
	if start.Before(now) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, start.Format(time.RFC3339))
	}
	return nil
}
