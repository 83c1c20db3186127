package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/lock"
	reservationRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
)

// Коллизия кода подтверждения почти невозможна, но повторяем с новым кодом
const maxCodeAttempts = 3

// UseCase use case для создания бронирования
type UseCase struct {
	resourceRepo    ResourceRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	locker          Locker
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// notifier может быть nil, тогда уведомления не отправляются
func NewUseCase(
	resourceRepo ResourceRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	locker Locker,
	notifier Notifier,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		resourceRepo:    resourceRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		locker:          locker,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверки идут в фиксированном порядке: форма запроса, ресурс, прошлое,
// порядок границ, расписание. Затем под блокировкой (ресурс, дата) в сериализуемой
// транзакции проверяется пересечение и вставляется запись.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: resource=%s, date=%s, %s-%s",
		req.ResourceID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.incMetric(metrics.ResultRejected)
		return nil, err
	}

	// 2. Текущее время и дата бронирования в часовом поясе площадки
	now := uc.timeProvider.Now().In(uc.location)
	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, uc.location)

	// 3. Ресурс существует и включён
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateReservation: resource id=%s not found", req.ResourceID)
			uc.incMetric(metrics.ResultRejected)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get resource id=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !resource.IsBookable() {
		uc.logger.Warn("CreateReservation: resource id=%s is not available", req.ResourceID)
		uc.incMetric(metrics.ResultRejected)
		return nil, ErrResourceNotFound
	}

	// 4. Начало не в прошлом
	if req.StartTime.OnDate(date).Before(now) {
		uc.logger.Warn("CreateReservation: start %s %s is in the past", date.Format(domain.DateFormat), req.StartTime)
		uc.incMetric(metrics.ResultRejected)
		return nil, ErrPast
	}

	// 5. Конец позже начала
	interval := domain.Interval{Start: req.StartTime, End: req.EndTime}
	if !req.StartTime.IsBefore(req.EndTime) {
		uc.logger.Warn("CreateReservation: inverted interval %s-%s", req.StartTime, req.EndTime)
		uc.incMetric(metrics.ResultRejected)
		return nil, ErrInvertedInterval
	}

	// 6. Каждая граница слота внутри интервала бронируемая, конец не позже закрытия
	if !resource.Schedule.IsBookableInterval(date.Weekday(), req.StartTime, req.EndTime) {
		uc.logger.Warn("CreateReservation: interval %s-%s on %s is not bookable for resource=%s",
			req.StartTime, req.EndTime, date.Weekday(), req.ResourceID)
		uc.incMetric(metrics.ResultRejected)
		return nil, ErrNotBookable
	}

	// 7. Цена
	price, err := domain.Price(resource.HourlyRate, interval)
	if err != nil {
		uc.incMetric(metrics.ResultRejected)
		return nil, err
	}

	// 8. Блокировка (ресурс, дата)
	unlock, err := uc.locker.Lock(ctx, lock.ResourceDayKey(req.ResourceID, date))
	if err != nil {
		uc.logger.Error("CreateReservation: failed to acquire lock: %v", err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %w", ErrInternal, err)
	}
	defer unlock()

	// 9. Проверка пересечения и вставка в сериализуемой транзакции
	var result *domain.Reservation
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		result, err = uc.book(ctx, req, date, price, now)
		if !errors.Is(err, reservationRepo.ErrDuplicateConfirmationCode) {
			break
		}
		uc.logger.Warn("CreateReservation: confirmation code collision, attempt %d", attempt)
	}
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.logger.Warn("CreateReservation: slot taken: resource=%s, date=%s, %s-%s",
				req.ResourceID, date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			uc.incMetric(metrics.ResultConflict)
			return nil, err
		}
		uc.logger.Error("CreateReservation: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
	}

	uc.incMetric(metrics.ResultCreated)
	uc.logger.Info("CreateReservation: created reservation id=%s, code=%s, price=%d",
		result.ID, result.ConfirmationCode, result.TotalPrice)

	// 10. Уведомление после коммита; ошибки доставки не влияют на результат
	uc.notify(resource, result)

	return &Response{
		ID:               result.ID,
		ConfirmationCode: result.ConfirmationCode,
		ResourceID:       result.ResourceID,
		ResourceName:     resource.Name,
		Date:             result.Date,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		Status:           string(result.Status),
		TotalPrice:       result.TotalPrice,
		Customer:         result.Customer,
		Guests:           result.Guests,
		Notes:            result.Notes,
		CreatedAt:        result.CreatedAt,
	}, nil
}

func (uc *UseCase) book(ctx context.Context, req *Request, date time.Time, price int64, now time.Time) (*domain.Reservation, error) {
	var result *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Advisory-блокировка дня ресурса (PostgreSQL)
		if err := uc.reservationRepo.LockResourceDay(txCtx, req.ResourceID, date); err != nil {
			return err
		}

		// 9.2. Подтверждённые бронирования на дату (FOR UPDATE)
		existing, err := uc.reservationRepo.GetConfirmedByResourceAndDate(txCtx, req.ResourceID, date)
		if err != nil {
			return err
		}

		// 9.3. Пересечение
		candidate := domain.Interval{Start: req.StartTime, End: req.EndTime}
		if conflict := domain.FirstConflict(candidate, existing); conflict != nil {
			return fmt.Errorf("%w: overlaps %s-%s", ErrSlotTaken, conflict.StartTime, conflict.EndTime)
		}

		// 9.4. Вставка; код подтверждения новый на каждую попытку
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			ConfirmationCode: domain.NewConfirmationCode(now),
			ResourceID:       req.ResourceID,
			Date:             date,
			StartTime:        req.StartTime,
			EndTime:          req.EndTime,
			Status:           domain.StatusConfirmed,
			TotalPrice:       price,
			Customer:         req.Customer,
			Guests:           req.Guests,
			Notes:            req.Notes,
		})
		if errors.Is(err, reservationRepo.ErrSlotTaken) {
			return fmt.Errorf("%w: %v", ErrSlotTaken, err)
		}
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	return result, err
}

func (uc *UseCase) notify(resource *domain.Resource, r *domain.Reservation) {
	if uc.notifier == nil {
		return
	}

	queued := uc.notifier.Dispatch(notifier.Notification{
		CustomerName:     r.Customer.Name,
		CustomerPhone:    r.Customer.Phone,
		CustomerEmail:    r.Customer.Email,
		ResourceName:     resource.Name,
		Date:             r.Date,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		ConfirmationCode: r.ConfirmationCode,
		TotalPrice:       r.TotalPrice,
	})
	if !queued {
		uc.logger.Warn("CreateReservation: notification for code=%s was dropped", r.ConfirmationCode)
	}
}

func (uc *UseCase) incMetric(result string) {
	if uc.metrics != nil {
		uc.metrics.IncReservation(result)
	}
}
