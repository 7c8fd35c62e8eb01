package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/availability"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
)

// UseCase use case для получения слотов корта на дату
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	day := domain.DateOnly(req.Date)
	uc.logger.Info("GetAvailableSlots: court=%d, date=%s", req.CourtID, domain.DateKey(day))

	// 2. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	response := &Response{
		Date:           day,
		CourtID:        court.ID,
		AllSlots:       []domain.Slot{},
		AvailableSlots: []domain.Slot{},
		PricePerHour:   court.HourlyRate,
	}

	// 3. Строим сетку слотов
	grid, err := availability.ComputeAvailableSlots(court, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	if grid.OperatingHours == nil {
		uc.logger.Info("GetAvailableSlots: court id=%d is closed on %s", court.ID, domain.DateKey(day))
		return response, nil
	}
	response.OperatingHours = grid.OperatingHours

	// 4. Активные бронирования, задевающие сутки
	dayEnd := day.AddDate(0, 0, 1)
	bookings, err := uc.bookingRepo.GetByCourtWithFilter(ctx, domain.CourtBookingsFilter{
		CourtID: court.ID,
		From:    &day,
		To:      &dayEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Отмечаем занятые и уже начавшиеся слоты
	slots := availability.MarkUnavailable(grid.Slots, day, bookings)
	markPast(slots, uc.timeProvider.Now())

	response.AllSlots = slots
	response.AvailableSlots = filterAvailable(slots)

	uc.logger.Info("GetAvailableSlots: court=%d, date=%s: %d/%d slots available",
		court.ID, domain.DateKey(day), len(response.AvailableSlots), len(response.AllSlots))

	return response, nil
}
