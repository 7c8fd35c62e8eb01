package availability

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// MarkUnavailable возвращает копию slots, где заняты слоты, пересекающиеся с бронированиями
//
// Учитываются только активные бронирования, задевающие сутки date (UTC).
// Слот занят, если его начало или конец попадает внутрь бронирования
// либо бронирование целиком лежит внутри слота. Входные данные не изменяются.
func MarkUnavailable(slots []domain.Slot, date time.Time, bookings []*domain.Booking) []domain.Slot {
	result := make([]domain.Slot, len(slots))
	copy(result, slots)

	dayStart := domain.DateOnly(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	for _, booking := range bookings {
		if booking == nil || !booking.IsActive() || !booking.EndTime.After(booking.StartTime) {
			continue
		}
		if !domain.Overlaps(booking.StartTime, booking.EndTime, dayStart, dayEnd) {
			continue
		}

		for i := range result {
			if blocks(result[i], booking) {
				result[i].Available = false
			}
		}
	}

	return result
}

// blocks проверяет пересечение слота [start, end) с бронированием [bStart, bEnd)
// Граничащие интервалы пересечением не считаются
func blocks(slot domain.Slot, booking *domain.Booking) bool {
	bStart, bEnd := booking.StartTime, booking.EndTime

	// начало слота внутри бронирования
	startInside := !slot.Start.Before(bStart) && slot.Start.Before(bEnd)
	// конец слота внутри бронирования
	endInside := slot.End.After(bStart) && !slot.End.After(bEnd)
	// бронирование целиком внутри слота
	contained := !bStart.Before(slot.Start) && !bEnd.After(slot.End)

	return startInside || endInside || contained
}
