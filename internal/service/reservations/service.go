package reservations

import (
	"context"
	"errors"
	"fmt"

	reservationRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
)

// Service сервис для чтения и отмены бронирований
type Service struct {
	reservationRepo ReservationRepository
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	m Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		metrics:         m,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(reservation), nil
}

// GetByConfirmationCode получает бронирование по коду подтверждения
func (s *Service) GetByConfirmationCode(ctx context.Context, code string) (*models.ReservationResponse, error) {
	reservation, err := s.reservationRepo.GetByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByConfirmationCode: code=%s not found", code)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByConfirmationCode: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByConfirmationCode - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(reservation), nil
}

// List получает бронирования по фильтру, отсортированные по дате и времени начала
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, ErrInvalidRange
	}

	reservations, err := s.reservationRepo.GetByFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет подтверждённое бронирование
// Переход confirmed -> cancelled выполняется одним условным UPDATE, поэтому из
// нескольких одновременных отмен успешна ровно одна, остальные получают ErrAlreadyCancelled
func (s *Service) Cancel(ctx context.Context, id string) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%s", id)

	// 1. Условный переход статуса
	cancelled, err := s.reservationRepo.CancelIfConfirmed(ctx, id, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Cancel: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// 2. Перечитываем запись: и для ответа, и чтобы понять причину отказа
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !cancelled {
		s.logger.Warn("Cancel: reservation id=%s is already %s", id, reservation.Status)
		s.incMetric(metrics.ResultAlreadyCancelled)
		return nil, ErrAlreadyCancelled
	}

	s.incMetric(metrics.ResultCancelled)
	s.logger.Info("Cancel: successfully cancelled reservation id=%s", id)
	return models.FromDomainReservation(reservation), nil
}

func (s *Service) incMetric(result string) {
	if s.metrics != nil {
		s.metrics.IncReservation(result)
	}
}
