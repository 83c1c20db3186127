package get_resource

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources/models"
)

type ResourceService interface {
	GetByID(ctx context.Context, id string) (*models.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
