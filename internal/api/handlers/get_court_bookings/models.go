package get_court_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	courtID int64,
	statusStr string,
	dateStr string,
	includeCancelledStr string,
) (*models.GetCourtBookingsRequest, error) {
	req := &models.GetCourtBookingsRequest{
		CourtID:          courtID,
		IncludeCancelled: false, // По умолчанию только активные
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date value: %w", err)
		}
		req.Date = &date
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
