package notifier

import "context"

// Sender отправляет уведомление по одному каналу
type Sender interface {
	Channel() string
	Send(ctx context.Context, n Notification) error
}

// Metrics счётчики доставки
type Metrics interface {
	IncNotification(channel, status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
