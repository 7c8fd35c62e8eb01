package get_court_schedule

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/service/courts/models"
)

type CourtService interface {
	GetCourtSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
