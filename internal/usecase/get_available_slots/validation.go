package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	return nil
}

// markPast помечает занятыми слоты, начавшиеся до now
func markPast(slots []domain.Slot, now time.Time) {
	for i := range slots {
		if slots[i].Start.Before(now) {
			slots[i].Available = false
		}
	}
}

// filterAvailable возвращает только свободные слоты
func filterAvailable(slots []domain.Slot) []domain.Slot {
	available := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			available = append(available, s)
		}
	}
	return available
}
