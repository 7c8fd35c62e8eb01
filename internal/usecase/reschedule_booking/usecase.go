package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/availability"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBooking/internal/overlapguard"
)

const operationName = "reschedule"

// UseCase use case для переноса бронирования на другой интервал того же корта
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	guard        OverlapGuard
	outcomes     OutcomeRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	guard OverlapGuard,
	outcomes OutcomeRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		guard:        guard,
		outcomes:     outcomes,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит бронирование
// Чтение бронирования, проверка пересечений (без учёта самого бронирования) и запись
// выполняются в одной сериализуемой транзакции. Статус и счётчики не меняются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, user=%d, interval=%s-%s",
		req.BookingID, req.UserID, req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat))

	resp, err := uc.execute(ctx, req)
	uc.recordOutcome(err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	start, end := req.StartTime.UTC(), req.EndTime.UTC()
	if start.Before(uc.timeProvider.Now()) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, start.Format(domain.TimeFormat))
	}

	var response *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование до конца транзакции
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if err := validateBooking(booking, req.UserID); err != nil {
			return err
		}

		// 2. Новый интервал в часах работы корта
		court, err := uc.courtRepo.GetByID(txCtx, booking.CourtID)
		if err != nil {
			return fmt.Errorf("%w: failed to get court id=%d: %w", ErrInternal, booking.CourtID, err)
		}

		if err := availability.ValidateInterval(court, start, end); err != nil {
			return fmt.Errorf("%w: %v", ErrOutsideOperatingHours, err)
		}

		// 3. Пересечения с другими бронированиями корта
		if err := uc.guard.AssertNoOverlap(txCtx, court.ID, start, end, &booking.ID); err != nil {
			if errors.Is(err, overlapguard.ErrSlotConflict) {
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			return fmt.Errorf("%w: overlap check: %w", ErrInternal, err)
		}

		price, err := domain.ComputePrice(court.HourlyRate, start, end)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 4. Запись
		updated, err := uc.bookingRepo.UpdateInterval(txCtx, booking.ID, start, end, price)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotConflict):
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		response = &Response{
			Booking:       updated,
			PreviousStart: booking.StartTime,
			PreviousEnd:   booking.EndTime,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("RescheduleBooking: booking id=%d: %v", req.BookingID, err)
			return nil, err
		}
		if isBusinessError(err) {
			uc.logger.Warn("RescheduleBooking: booking id=%d: %v", req.BookingID, err)
			return nil, err
		}
		uc.logger.Error("RescheduleBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved from %s to %s",
		response.Booking.ID, response.PreviousStart.Format(domain.TimeFormat), response.Booking.StartTime.Format(domain.TimeFormat))

	return response, nil
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		ErrBookingNotFound,
		ErrAccessDenied,
		ErrNotReschedulable,
		ErrOutsideOperatingHours,
		ErrSlotNotAvailable,
		ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (uc *UseCase) recordOutcome(err error) {
	if uc.outcomes == nil {
		return
	}
	switch {
	case err == nil:
		uc.outcomes.RecordBookingOutcome(operationName, "success")
	case errors.Is(err, ErrSlotNotAvailable):
		uc.outcomes.RecordBookingOutcome(operationName, "conflict")
	case errors.Is(err, ErrInternal):
		uc.outcomes.RecordBookingOutcome(operationName, "error")
	default:
		uc.outcomes.RecordBookingOutcome(operationName, "rejected")
	}
}
