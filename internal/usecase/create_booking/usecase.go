package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/availability"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	userClient "github.com/m04kA/SMC-CourtBooking/internal/integrations/userservice"
	"github.com/m04kA/SMC-CourtBooking/internal/overlapguard"
)

const operationName = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	guard        OverlapGuard
	userClient   UserServiceClient
	counter      BookingCounter
	outcomes     OutcomeRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// userClient может быть nil: проверка пользователя тогда не выполняется
func NewUseCase(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	guard OverlapGuard,
	userClient UserServiceClient,
	counter BookingCounter,
	outcomes OutcomeRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		guard:        guard,
		userClient:   userClient,
		counter:      counter,
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

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции:
// из двух одновременных запросов на один интервал успешен ровно один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, court=%d, interval=%s-%s",
		req.UserID, req.CourtID, req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat))

	resp, err := uc.execute(ctx, req)
	uc.recordOutcome(err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	status, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	start, end := req.StartTime.UTC(), req.EndTime.UTC()
	now := uc.timeProvider.Now()

	if err := validateNotInPast(start, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 2. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Интервал должен лежать в часах работы корта на дату начала
	if err := availability.ValidateInterval(court, start, end); err != nil {
		uc.logger.Warn("CreateBooking: court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: %v", ErrOutsideOperatingHours, err)
	}

	// 4. Проверяем пользователя (graceful degradation при недоступности UserService)
	if err := uc.checkUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	// 5. Стоимость
	price, err := domain.ComputePrice(court.HourlyRate, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Booking

	// 6. Проверка пересечений и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.guard.AssertNoOverlap(txCtx, court.ID, start, end, nil); err != nil {
			if errors.Is(err, overlapguard.ErrSlotConflict) {
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			return fmt.Errorf("%w: overlap check: %w", ErrInternal, err)
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CourtID:    court.ID,
			UserID:     req.UserID,
			StartTime:  start,
			EndTime:    end,
			Status:     status,
			TotalPrice: price,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotConflict) {
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: court id=%d: %v", req.CourtID, err)
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	// 7. Денормализованный счётчик: ошибки не влияют на результат
	if result.Status == domain.StatusConfirmed {
		if err := uc.counter.Adjust(ctx, result.UserID, 1); err != nil {
			uc.logger.Warn("CreateBooking: failed to increment counter for user=%d: %v", result.UserID, err)
		}
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s, price=%s",
		result.ID, result.Status, result.TotalPrice.StringFixed(domain.PriceDecimalPlaces))

	return &Response{
		ID:         result.ID,
		CourtID:    result.CourtID,
		UserID:     result.UserID,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		Status:     result.Status,
		TotalPrice: result.TotalPrice,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}

func (uc *UseCase) checkUser(ctx context.Context, userID int64) error {
	if uc.userClient == nil {
		return nil
	}

	_, err := uc.userClient.GetUserWithGracefulDegradation(ctx, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, userClient.ErrUserNotFound):
		uc.logger.Warn("CreateBooking: user id=%d not found", userID)
		return ErrUserNotFound
	case errors.Is(err, userClient.ErrUserBlocked):
		uc.logger.Warn("CreateBooking: user id=%d is blocked", userID)
		return ErrUserBlocked
	default:
		uc.logger.Warn("CreateBooking: proceeding without user check for user id=%d: %v", userID, err)
		return nil
	}
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
