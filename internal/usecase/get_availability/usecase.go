package get_availability

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
)

// UseCase use case для получения свободных слотов ресурса
// Работает без блокировок и транзакций: результат может устареть к моменту бронирования
type UseCase struct {
	resourceRepo    ResourceRepository
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	logger          Logger
	opts            Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	reservationRepo ReservationRepository,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = domain.DefaultHorizonDays
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = domain.DefaultMaxRangeDays
	}

	return &UseCase{
		resourceRepo:    resourceRepo,
		reservationRepo: reservationRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		opts:            opts,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: resource=%s", req.ResourceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время в часовом поясе площадки
	now := uc.timeProvider.Now().In(uc.opts.Location)

	// 3. Окно дат
	from, to, err := resolveRange(req, domain.DateOnly(now), uc.opts.HorizonDays, uc.opts.MaxRangeDays)
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid range: %v", err)
		return nil, err
	}

	// 4. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailability: resource id=%s not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get resource id=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 5. Подтверждённые бронирования за всё окно одним запросом
	reservations, err := uc.reservationRepo.GetByFilter(ctx, domain.ReservationsFilter{
		ResourceID: &req.ResourceID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 6. Кандидаты минус занятые
	free := slices.Collect(Free(Candidates(resource, from, to, now), reservations))

	slots := make([]Slot, len(free))
	for i, s := range free {
		slots[i] = Slot{Date: s.Date, StartTime: s.Interval.Start, EndTime: s.Interval.End}
	}

	uc.logger.Info("GetAvailability: %d free slots for resource=%s, %s..%s",
		len(slots), req.ResourceID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	return &Response{
		ResourceID: req.ResourceID,
		From:       from,
		To:         to,
		Slots:      slots,
	}, nil
}
