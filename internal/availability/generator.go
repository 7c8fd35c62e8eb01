package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Result сетка слотов на дату и действующие часы работы (nil, если корт закрыт)
type Result struct {
	Slots          []domain.Slot
	OperatingHours *domain.OperatingHours
}

// ComputeAvailableSlots строит сетку слотов корта на дату
//
// Часы берутся из расписания по дню недели; override на дату заменяет их целиком;
// blackout закрывает дату безусловно. Открытие и закрытие учитываются с точностью до часа,
// неполный последний слот не создаётся. Все слоты изначально доступны.
func ComputeAvailableSlots(court *domain.Court, date time.Time) (Result, error) {
	if court == nil {
		return Result{}, fmt.Errorf("availability: court is nil")
	}

	day := domain.DateOnly(date)
	hours := court.ResolveHours(day)
	if hours == nil {
		return Result{Slots: []domain.Slot{}}, nil
	}

	open, closeAt, _ := court.OperatingWindow(day)
	duration := time.Duration(court.SlotDurationMinutes()) * time.Minute

	count := int(closeAt.Sub(open) / duration)
	if count < 0 {
		count = 0
	}

	slots := make([]domain.Slot, 0, count)
	for i := 0; i < count; i++ {
		start := open.Add(time.Duration(i) * duration)
		slots = append(slots, domain.Slot{
			Time:      types.NewTimeString(start).String(),
			Start:     start,
			End:       start.Add(duration),
			Available: true,
			Price:     court.HourlyRate,
		})
	}

	h := *hours
	return Result{Slots: slots, OperatingHours: &h}, nil
}
