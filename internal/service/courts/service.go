package courts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
)

// Service сервис чтения конфигурации кортов
type Service struct {
	courtRepo    CourtRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(courtRepo CourtRepository, logger Logger) *Service {
	return &Service{
		courtRepo:    courtRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetCourtSchedule возвращает недельное расписание корта, исключения и
// фактические часы работы на ближайшие дни
func (s *Service) GetCourtSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetCourtSchedule: fetching schedule for court=%d, days=%d", req.CourtID, req.Days)

	if req.CourtID <= 0 {
		return nil, fmt.Errorf("%w: court_id must be positive", ErrInvalidInput)
	}

	days := req.Days
	if days == 0 {
		days = models.DefaultScheduleDays
	}
	if days < 0 || days > models.MaxScheduleDays {
		s.logger.Warn("GetCourtSchedule: days=%d out of range for court=%d", req.Days, req.CourtID)
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, models.MaxScheduleDays)
	}

	court, err := s.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("GetCourtSchedule: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("GetCourtSchedule: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetCourtSchedule - repository error: %v", ErrInternal, err)
	}

	from := s.timeProvider.Now()
	if req.From != nil {
		from = *req.From
	}
	from = domain.DateOnly(from)

	resp := models.FromDomainCourt(court)
	resp.Upcoming = make([]models.DaySchedule, 0, days)
	for i := 0; i < days; i++ {
		resp.Upcoming = append(resp.Upcoming, models.ResolveDay(court, from.AddDate(0, 0, i)))
	}

	s.logger.Info("GetCourtSchedule: successfully built schedule for court=%d", req.CourtID)
	return resp, nil
}
