package reservations

import (
	"errors"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = domain.NewNotFoundError("reservation not found")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = domain.NewAlreadyCancelledError("reservation is already cancelled")

	// ErrInvalidRange возвращается, когда конец периода раньше начала
	ErrInvalidRange = domain.NewValidationError(domain.ReasonInvertedRange, "to must not be before from")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations.service: internal error")
)
