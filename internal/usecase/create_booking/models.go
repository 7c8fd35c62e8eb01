package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	CourtID   int64                 // ID корта
	UserID    int64                 // ID пользователя
	StartTime time.Time             // Начало интервала (UTC)
	EndTime   time.Time             // Конец интервала, не включается
	Status    *domain.BookingStatus // pending или confirmed (по умолчанию confirmed)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	CourtID    int64
	UserID     int64
	StartTime  time.Time
	EndTime    time.Time
	Status     domain.BookingStatus
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
