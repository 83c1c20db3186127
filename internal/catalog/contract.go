package catalog

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	Upsert(ctx context.Context, resource *domain.Resource) error
	MarkUnavailableExcept(ctx context.Context, ids []string) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
