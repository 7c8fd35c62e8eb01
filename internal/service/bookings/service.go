package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo  BookingRepository
	courtRepo    CourtRepository
	counter      BookingCounter
	outcomes     OutcomeRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
// outcomes может быть nil
func NewService(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	counter BookingCounter,
	outcomes OutcomeRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		counter:      counter,
		outcomes:     outcomes,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.loadBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetCourtBookings получает бронирования корта с фильтрацией по дате и статусу
// По умолчанию отменённые бронирования не возвращаются
func (s *Service) GetCourtBookings(ctx context.Context, req *models.GetCourtBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetCourtBookings: fetching bookings for court=%d", req.CourtID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", domain.DateKey(*req.Date))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCourtBookings: invalid filter for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	if _, err := s.courtRepo.GetByID(ctx, req.CourtID); err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("GetCourtBookings: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("GetCourtBookings: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetCourtBookings - court repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetByCourtWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCourtBookings: repository error for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetCourtBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCourtBookings: successfully fetched %d bookings for court=%d", len(bookings), req.CourtID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование владельцем
// Отмена подтверждённого бронирования уменьшает счётчик пользователя
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	reason := strings.TrimSpace(req.CancellationReason)
	if len([]rune(reason)) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	resp, err := s.transition(ctx, "Cancel", bookingID, req.UserID, domain.StatusCancelled, reasonPtr)
	s.recordOutcome("cancel", err)
	return resp, err
}

// Confirm подтверждает бронирование в статусе pending
func (s *Service) Confirm(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d by user=%d", bookingID, userID)

	resp, err := s.transition(ctx, "Confirm", bookingID, userID, domain.StatusConfirmed, nil)
	s.recordOutcome("confirm", err)
	return resp, err
}

// Complete завершает подтверждённое бронирование после его окончания
func (s *Service) Complete(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d by user=%d", bookingID, userID)

	resp, err := s.transition(ctx, "Complete", bookingID, userID, domain.StatusCompleted, nil)
	s.recordOutcome("complete", err)
	return resp, err
}

// CompleteExpired завершает все подтверждённые бронирования, закончившиеся к текущему моменту
// Вызывается периодически фоновым процессом и через внутренний эндпоинт
func (s *Service) CompleteExpired(ctx context.Context) (*models.CompleteExpiredResponse, error) {
	now := s.timeProvider.Now()

	completed, err := s.bookingRepo.CompleteFinished(ctx, now)
	if err != nil {
		s.logger.Error("CompleteExpired: repository error: %v", err)
		s.recordOutcome("complete_expired", ErrInternal)
		return nil, fmt.Errorf("%w: CompleteExpired - repository error: %v", ErrInternal, err)
	}

	resp := &models.CompleteExpiredResponse{
		Completed:  len(completed),
		BookingIDs: make([]int64, 0, len(completed)),
	}
	for _, b := range completed {
		resp.BookingIDs = append(resp.BookingIDs, b.ID)
	}

	if resp.Completed > 0 {
		s.logger.Info("CompleteExpired: completed %d bookings ended before %s", resp.Completed, now.Format(time.RFC3339))
	}
	s.recordOutcome("complete_expired", nil)
	return resp, nil
}

// GetBookingStats возвращает счётчик подтверждённых бронирований пользователя
// Значение из Redis сверяется с таблицей bookings; при расхождении счётчик перезаписывается
func (s *Service) GetBookingStats(ctx context.Context, userID int64) (*models.BookingStatsResponse, error) {
	s.logger.Info("GetBookingStats: fetching stats for user=%d", userID)

	counts, err := s.bookingRepo.CountByUserAndStatus(ctx, userID)
	if err != nil {
		s.logger.Error("GetBookingStats: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetBookingStats - repository error: %v", ErrInternal, err)
	}

	resp := &models.BookingStatsResponse{
		UserID:   userID,
		ByStatus: make(map[string]int64, len(domain.ActiveStatuses)+len(domain.InactiveStatuses)),
	}
	for _, status := range append(append([]domain.BookingStatus{}, domain.ActiveStatuses...), domain.InactiveStatuses...) {
		resp.ByStatus[string(status)] = counts[status]
	}
	// Подтверждённые бронирования остаются в счётчике и после завершения
	resp.ConfirmedTotal = counts[domain.StatusConfirmed] + counts[domain.StatusCompleted]

	counter, err := s.counter.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("GetBookingStats: counter unavailable for user=%d: %v", userID, err)
		return resp, nil
	}

	if counter != resp.ConfirmedTotal {
		s.logger.Warn("GetBookingStats: counter drift for user=%d: counter=%d, actual=%d", userID, counter, resp.ConfirmedTotal)
		if err := s.counter.Reset(ctx, userID, resp.ConfirmedTotal); err != nil {
			s.logger.Warn("GetBookingStats: failed to resync counter for user=%d: %v", userID, err)
		} else {
			resp.CounterResynced = true
			counter = resp.ConfirmedTotal
		}
	}
	resp.ConfirmedCounter = &counter

	return resp, nil
}

// transition выполняет переход статуса с проверкой владельца и CAS по наблюдаемому статусу
// CAS по точному исходному статусу гарантирует корректную поправку счётчика
func (s *Service) transition(
	ctx context.Context,
	op string,
	bookingID int64,
	userID int64,
	to domain.BookingStatus,
	reason *string,
) (*models.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(booking, userID); err != nil {
		s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, userID, bookingID)
		return nil, err
	}

	if !booking.Status.CanTransitionTo(to) {
		s.logger.Warn("%s: booking id=%d cannot move from %s to %s", op, bookingID, booking.Status, to)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	now := s.timeProvider.Now()
	if to == domain.StatusCompleted && !booking.HasEnded(now) {
		s.logger.Warn("%s: booking id=%d ends at %s", op, bookingID, booking.EndTime.Format(time.RFC3339))
		return nil, ErrNotFinished
	}

	from := booking.Status
	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingRepo.StatusUpdate{
		ID:     bookingID,
		To:     to,
		From:   []domain.BookingStatus{from},
		Reason: reason,
		At:     now,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("%s: booking id=%d disappeared during update", op, bookingID)
			return nil, ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("%s: booking id=%d status changed concurrently", op, bookingID)
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		default:
			s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}

	s.adjustCounter(ctx, op, updated.UserID, counterDelta(from, to))

	s.logger.Info("%s: booking id=%d moved from %s to %s", op, bookingID, from, to)
	return models.FromDomainBooking(updated), nil
}

func (s *Service) loadBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkUserAccess проверяет, что пользователь является владельцем бронирования
func (s *Service) checkUserAccess(booking *domain.Booking, userID int64) error {
	if booking.UserID != userID {
		return ErrAccessDenied
	}
	return nil
}

// adjustCounter обновляет счётчик; ошибки Redis только логируются
func (s *Service) adjustCounter(ctx context.Context, op string, userID int64, delta int64) {
	if delta == 0 {
		return
	}
	if err := s.counter.Adjust(ctx, userID, delta); err != nil {
		s.logger.Warn("%s: failed to adjust counter for user=%d by %d: %v", op, userID, delta, err)
	}
}

// counterDelta изменение счётчика подтверждённых бронирований при переходе from -> to
func counterDelta(from, to domain.BookingStatus) int64 {
	switch {
	case to == domain.StatusConfirmed && from != domain.StatusConfirmed:
		return 1
	case to == domain.StatusCancelled && from == domain.StatusConfirmed:
		return -1
	default:
		return 0
	}
}

func (s *Service) recordOutcome(op string, err error) {
	if s.outcomes == nil {
		return
	}
	switch {
	case err == nil:
		s.outcomes.RecordBookingOutcome(op, "success")
	case errors.Is(err, ErrInvalidTransition):
		s.outcomes.RecordBookingOutcome(op, "conflict")
	case errors.Is(err, ErrInternal):
		s.outcomes.RecordBookingOutcome(op, "error")
	default:
		s.outcomes.RecordBookingOutcome(op, "rejected")
	}
}
