package overlapguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

var (
	// ErrSlotConflict интервал пересекается с активным бронированием корта
	ErrSlotConflict = errors.New("overlapguard: slot already booked")

	// ErrLookup ошибка чтения существующих бронирований
	ErrLookup = errors.New("overlapguard: failed to look up bookings")
)

// BookingFinder источник активных бронирований корта, пересекающих интервал
//
// Внутри транзакции реализация обязана блокировать найденные строки (SELECT ... FOR UPDATE)
type BookingFinder interface {
	FindOverlapping(ctx context.Context, courtID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// Guard единственная точка проверки пересечений перед записью интервала бронирования
type Guard struct {
	finder BookingFinder
}

// New создает Guard
func New(finder BookingFinder) *Guard {
	return &Guard{finder: finder}
}

// AssertNoOverlap проверяет, что [start, end) не пересекается с активными бронированиями корта
// excludeID исключает переносимое бронирование из проверки
// Вызывается внутри той же транзакции, что и последующая запись
func (g *Guard) AssertNoOverlap(ctx context.Context, courtID int64, start, end time.Time, excludeID *int64) error {
	if !end.After(start) {
		return domain.ErrInvalidInterval
	}

	found, err := g.finder.FindOverlapping(ctx, courtID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLookup, err)
	}

	for _, b := range found {
		if b == nil || !b.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.OverlapsInterval(start, end) {
			return fmt.Errorf("%w: booking id=%d occupies %s-%s", ErrSlotConflict, b.ID,
				b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339))
		}
	}

	return nil
}
