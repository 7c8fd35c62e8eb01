package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	StartTime string `json:"startTime"` // RFC 3339
	EndTime   string `json:"endTime"`
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	models.BookingResponse
	PreviousStartTime string `json:"previousStartTime"`
	PreviousEndTime   string `json:"previousEndTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, userID int64) (*rescheduleBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &rescheduleBooking.Request{
		BookingID: bookingID,
		UserID:    userID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		BookingResponse:   *models.FromDomainBooking(resp.Booking),
		PreviousStartTime: resp.PreviousStart.UTC().Format(time.RFC3339),
		PreviousEndTime:   resp.PreviousEnd.UTC().Format(time.RFC3339),
	}
}
