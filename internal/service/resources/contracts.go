package resources

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, filter domain.ResourcesFilter) ([]*domain.Resource, error)
	UpdateSchedule(ctx context.Context, id string, schedule domain.Schedule) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
