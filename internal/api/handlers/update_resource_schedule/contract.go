package update_resource_schedule

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources/models"
)

type ResourceService interface {
	UpdateSchedule(ctx context.Context, id string, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
