package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByCourtWithFilter(ctx context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, upd bookingRepo.StatusUpdate) (*domain.Booking, error)
	CompleteFinished(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	CountByUserAndStatus(ctx context.Context, userID int64) (map[domain.BookingStatus]int64, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// BookingCounter денормализованный счётчик подтверждённых бронирований пользователя
type BookingCounter interface {
	Adjust(ctx context.Context, userID int64, delta int64) error
	Get(ctx context.Context, userID int64) (int64, error)
	Reset(ctx context.Context, userID int64, value int64) error
}

// OutcomeRecorder метрики исходов операций бронирования
type OutcomeRecorder interface {
	RecordBookingOutcome(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
