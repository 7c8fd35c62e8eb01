package sweeper

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

// BookingService завершение закончившихся бронирований
type BookingService interface {
	CompleteExpired(ctx context.Context) (*models.CompleteExpiredResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper периодически переводит закончившиеся подтверждённые бронирования в completed
type Sweeper struct {
	service  BookingService
	interval time.Duration
	logger   Logger
}

// New создает sweeper; interval должен быть положительным
func New(service BookingService, interval time.Duration, logger Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Run выполняет проход сразу и затем на каждом тике, пока ctx не отменён
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started, interval=%s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.service.CompleteExpired(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("Sweeper: complete expired failed: %v", err)
	}
}
