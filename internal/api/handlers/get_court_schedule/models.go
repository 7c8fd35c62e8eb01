package get_court_schedule

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(courtID int64, fromStr, daysStr string) (*models.GetScheduleRequest, error) {
	req := &models.GetScheduleRequest{CourtID: courtID}

	if fromStr != "" {
		from, err := domain.ParseDate(fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from value: %w", err)
		}
		req.From = &from
	}

	if daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return nil, fmt.Errorf("invalid days value: %w", err)
		}
		req.Days = days
	}

	return req, nil
}
