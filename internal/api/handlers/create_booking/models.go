package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtID   int64   `json:"courtId"`
	UserID    int64   `json:"userId"`
	StartTime string  `json:"startTime"` // RFC 3339, "2025-06-16T10:00:00Z"
	EndTime   string  `json:"endTime"`
	Status    *string `json:"status,omitempty"` // pending | confirmed
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64  `json:"id"`
	CourtID    int64  `json:"courtId"`
	UserID     int64  `json:"userId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	TotalPrice string `json:"totalPrice"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	req := &createBooking.Request{
		CourtID:   r.CourtID,
		UserID:    r.UserID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		req.Status = &status
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		CourtID:    resp.CourtID,
		UserID:     resp.UserID,
		StartTime:  resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:    resp.EndTime.UTC().Format(time.RFC3339),
		Status:     string(resp.Status),
		TotalPrice: resp.TotalPrice.StringFixed(domain.PriceDecimalPlaces),
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
