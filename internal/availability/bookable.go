package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

var (
	// ErrCourtClosed корт закрыт в дату начала бронирования (выходной или blackout)
	ErrCourtClosed = errors.New("availability: court is closed on this date")

	// ErrOutsideOperatingHours интервал выходит за часы работы корта
	ErrOutsideOperatingHours = errors.New("availability: interval is outside operating hours")
)

// ValidateInterval проверяет, что [start, end) целиком лежит в рабочем окне даты начала
// Окно считается так же, как для сетки слотов: целые часы открытия и закрытия
func ValidateInterval(court *domain.Court, start, end time.Time) error {
	if !end.After(start) {
		return domain.ErrInvalidInterval
	}

	open, closeAt, ok := court.OperatingWindow(start)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCourtClosed, domain.DateKey(start))
	}

	if start.Before(open) || end.After(closeAt) {
		return fmt.Errorf("%w: %s-%s is outside %s-%s", ErrOutsideOperatingHours,
			start.Format(time.RFC3339), end.Format(time.RFC3339),
			open.Format(domain.TimeFormat), closeAt.Format(domain.TimeFormat))
	}

	return nil
}
