package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/notifier"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetConfirmedByResourceAndDate(ctx context.Context, resourceID string, date time.Time) ([]*domain.Reservation, error)
	LockResourceDay(ctx context.Context, resourceID string, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка пары (ресурс, дата) на время транзакции
type Locker interface {
	Lock(ctx context.Context, key string) (lock.Unlock, error)
}

// Notifier асинхронная отправка подтверждения клиенту
type Notifier interface {
	Dispatch(n notifier.Notification) bool
}

// Metrics счётчики результатов бронирования
type Metrics interface {
	IncReservation(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
