package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 100
	defaultTimeout   = 10 * time.Second
)

// DispatcherConfig параметры очереди уведомлений
type DispatcherConfig struct {
	Workers       int
	QueueSize     int
	RatePerSecond float64 // 0 без ограничения
	Timeout       time.Duration
}

// Dispatcher асинхронно рассылает уведомления всем отправителям
// Очередь ограничена: при переполнении уведомление отбрасывается.
// Ошибки отправки только логируются и считаются
type Dispatcher struct {
	senders []Sender
	queue   chan Notification
	limiter *rate.Limiter
	timeout time.Duration
	workers int
	metrics Metrics
	logger  Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создаёт диспетчер и запускает воркеры
func NewDispatcher(cfg DispatcherConfig, senders []Sender, m Metrics, logger Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = max(1, int(cfg.RatePerSecond))
	}

	d := &Dispatcher{
		senders: senders,
		queue:   make(chan Notification, cfg.QueueSize),
		limiter: rate.NewLimiter(limit, burst),
		timeout: cfg.Timeout,
		workers: cfg.Workers,
		metrics: m,
		logger:  logger,
	}

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Dispatch ставит уведомление в очередь без блокировки
// Возвращает false, если очередь заполнена или диспетчер остановлен
func (d *Dispatcher) Dispatch(n Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed || len(d.senders) == 0 {
		d.count("all", metrics.NotificationDropped)
		return false
	}

	select {
	case d.queue <- n:
		return true
	default:
		d.logger.Warn("notifier: queue is full, dropping notification code=%s", n.ConfirmationCode)
		d.count("all", metrics.NotificationDropped)
		return false
	}
}

// Close перестаёт принимать уведомления и ждёт, пока воркеры разберут очередь
// Если ctx истекает раньше, возвращает его ошибку; воркеры дорабатывают в фоне
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for n := range d.queue {
		for _, s := range d.senders {
			d.send(s, n)
		}
	}
}

func (d *Dispatcher) send(s Sender, n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.limiter.Wait(ctx); err != nil {
		d.logger.Warn("notifier: rate limit wait for %s code=%s: %v", s.Channel(), n.ConfirmationCode, err)
		d.count(s.Channel(), metrics.NotificationFailed)
		return
	}

	err := s.Send(ctx, n)
	switch {
	case errors.Is(err, ErrNoRecipient):
		d.logger.Info("notifier: skip %s for code=%s: no recipient", s.Channel(), n.ConfirmationCode)
	case err != nil:
		d.logger.Error("notifier: %s for code=%s failed: %v", s.Channel(), n.ConfirmationCode, err)
		d.count(s.Channel(), metrics.NotificationFailed)
	default:
		d.logger.Info("notifier: %s sent for code=%s", s.Channel(), n.ConfirmationCode)
		d.count(s.Channel(), metrics.NotificationSent)
	}
}

func (d *Dispatcher) count(channel, status string) {
	if d.metrics != nil {
		d.metrics.IncNotification(channel, status)
	}
}
