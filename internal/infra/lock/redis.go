package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL        = 10 * time.Second
	defaultRetryDelay = 25 * time.Millisecond
	maxRetryDelay     = 250 * time.Millisecond
	keyPrefix         = "court-booking:lock:"
)

// Удаляем ключ, только если он всё ещё принадлежит нам
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределённая блокировка на SET NX PX
// TTL ограничивает время жизни блокировки, если процесс упал, не освободив её
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// NewRedisLocker создаёт Redis-локер; ttl <= 0 означает значение по умолчанию
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisLocker{client: client, ttl: ttl, logger: logger}
}

// Lock повторяет SET NX с растущей паузой до успеха или отмены контекста
func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()
	delay := defaultRetryDelay

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: key=%s: %w", ErrAcquire, key, ctxErr)
			}
			return nil, fmt.Errorf("%w: SetNX key=%s: %w", ErrBackend, key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: key=%s: %w", ErrAcquire, key, ctx.Err())
		case <-timer.C:
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Освобождаем даже если контекст запроса уже отменён
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := unlockScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err()
			if err != nil && !errors.Is(err, redis.Nil) && l.logger != nil {
				l.logger.Warn("lock: failed to release key=%s: %v", key, err)
			}
		})
	}, nil
}
