package create_reservation

import (
	"errors"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден или выключен
	ErrResourceNotFound = domain.NewNotFoundError("resource not found or not available")

	// ErrPast возвращается, когда начало бронирования уже прошло
	ErrPast = domain.NewValidationError(domain.ReasonPast, "cannot book in the past")

	// ErrInvertedInterval возвращается, когда конец не позже начала
	ErrInvertedInterval = domain.NewValidationError(domain.ReasonInvertedInterval, "end time must be after start time")

	// ErrNotBookable возвращается, когда интервал выходит за расписание ресурса
	ErrNotBookable = domain.NewValidationError(domain.ReasonNotBookable, "requested interval is outside the resource schedule")

	// ErrSlotTaken возвращается, когда интервал пересекается с подтверждённым бронированием
	ErrSlotTaken = domain.NewConflictError(domain.ReasonSlotTaken, "requested interval overlaps an existing reservation")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
