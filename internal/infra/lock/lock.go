// Package lock сериализует бронирование одного ресурса на одну дату.
// Локальная реализация работает в пределах процесса, Redis-реализация между репликами.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAcquire не удалось взять блокировку до отмены контекста
	ErrAcquire = errors.New("lock: failed to acquire")

	// ErrBackend ошибка хранилища блокировок
	ErrBackend = errors.New("lock: backend error")
)

// Unlock освобождает взятую блокировку; повторный вызов безопасен
type Unlock func()

// Locker именованная взаимоисключающая блокировка
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// ResourceDayKey ключ блокировки для пары (ресурс, дата)
func ResourceDayKey(resourceID string, date time.Time) string {
	return fmt.Sprintf("resource:%s:%s", resourceID, date.Format("2006-01-02"))
}
