package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/resources/models"
)

// Service сервис для работы с ресурсами и их расписанием
type Service struct {
	resourceRepo ResourceRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса ресурсов
func NewService(
	resourceRepo ResourceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// List получает ресурсы по фильтру
func (s *Service) List(ctx context.Context, req *models.ListResourcesRequest) (*models.ResourceListResponse, error) {
	filter := domain.ResourcesFilter{Available: req.Available}
	if req.Sport != nil {
		sport := domain.Sport(*req.Sport)
		if !sport.IsValid() {
			s.logger.Warn("List: unknown sport %q", *req.Sport)
			return nil, fmt.Errorf("%w: unknown sport %q", ErrInvalidInput, *req.Sport)
		}
		filter.Sport = &sport
	}

	resources, err := s.resourceRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResourceList(resources), nil
}

// GetByID получает ресурс по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.ResourceResponse, error) {
	resource, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainResource(resource), nil
}

// GetSchedule получает расписание ресурса
func (s *Service) GetSchedule(ctx context.Context, id string) (*models.ScheduleResponse, error) {
	resource, err := s.get(ctx, "GetSchedule", id)
	if err != nil {
		return nil, err
	}

	schedule := models.FromDomainSchedule(resource.Schedule)
	return &schedule, nil
}

// UpdateSchedule частично обновляет расписание ресурса
// Чтение, слияние и запись выполняются в одной транзакции
func (s *Service) UpdateSchedule(ctx context.Context, id string, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for resource id=%s", id)

	if req == nil || req.IsEmpty() {
		s.logger.Warn("UpdateSchedule: empty request for resource id=%s", id)
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	var updated domain.Schedule
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Текущее расписание
		resource, err := s.get(txCtx, "UpdateSchedule", id)
		if err != nil {
			return err
		}

		// 2. Накладываем изменения
		next, err := req.ApplyTo(resource.Schedule)
		if err != nil {
			if _, ok := domain.AsError(err); ok {
				return err
			}
			return domain.NewValidationError(domain.ReasonInvalidTime, err.Error())
		}

		// 3. Валидируем результат целиком
		if err := next.Validate(); err != nil {
			return err
		}

		// 4. Сохраняем, заблокированные слоты заменяются полностью
		if err := s.resourceRepo.UpdateSchedule(txCtx, id, next); err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				return ErrResourceNotFound
			}
			return fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			s.logger.Warn("UpdateSchedule: rejected for resource id=%s: %v", id, err)
			return nil, err
		}
		s.logger.Error("UpdateSchedule: failed for resource id=%s: %v", id, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: UpdateSchedule - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule for resource id=%s", id)
	schedule := models.FromDomainSchedule(updated)
	return &schedule, nil
}

func (s *Service) get(ctx context.Context, op, id string) (*domain.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%s not found", op, id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("%s: repository error for resource id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return resource, nil
}
