package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetCourtBookingsRequest запрос на получение бронирований корта
type GetCourtBookingsRequest struct {
	CourtID          int64      `json:"courtId"`
	Date             *time.Time `json:"date,omitempty"`   // бронирования, задевающие эту дату (опционально)
	Status           *string    `json:"status,omitempty"` // фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCourtBookingsRequest) ToDomainFilter() (domain.CourtBookingsFilter, error) {
	filter := domain.CourtBookingsFilter{
		CourtID:          r.CourtID,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Date != nil {
		from := domain.DateOnly(*r.Date)
		to := from.AddDate(0, 0, 1)
		filter.From = &from
		filter.To = &to
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	CourtID    int64  `json:"courtId"`
	UserID     int64  `json:"userId"`
	StartTime  string `json:"startTime"` // RFC 3339, UTC
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	TotalPrice string `json:"totalPrice"` // "150.00"

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CompleteExpiredResponse результат массового завершения
type CompleteExpiredResponse struct {
	Completed  int     `json:"completed"`
	BookingIDs []int64 `json:"bookingIds"`
}

// BookingStatsResponse статистика бронирований пользователя
type BookingStatsResponse struct {
	UserID int64 `json:"userId"`
	// Счётчик из Redis (рекомендательный); nil, если недоступен
	ConfirmedCounter *int64 `json:"confirmedCounter,omitempty"`
	// Пересчёт по таблице bookings: confirmed + completed
	ConfirmedTotal  int64            `json:"confirmedTotal"`
	ByStatus        map[string]int64 `json:"byStatus"`
	CounterResynced bool             `json:"counterResynced"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		CourtID:            b.CourtID,
		UserID:             b.UserID,
		StartTime:          b.StartTime.UTC().Format(time.RFC3339),
		EndTime:            b.EndTime.UTC().Format(time.RFC3339),
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice.StringFixed(domain.PriceDecimalPlaces),
		CancellationReason: b.CancellationReason,
		CancelledAt:        formatTime(b.CancelledAt),
		CompletedAt:        formatTime(b.CompletedAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, err := domain.ParseBookingStatus(status)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
