package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64     // ID бронирования
	UserID    int64     // ID пользователя из X-User-ID
	StartTime time.Time // Новое начало (UTC)
	EndTime   time.Time // Новый конец, не включается
}

// Response перенесённое бронирование и интервал до переноса
type Response struct {
	Booking       *domain.Booking
	PreviousStart time.Time
	PreviousEnd   time.Time
}
