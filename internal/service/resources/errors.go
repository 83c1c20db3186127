package resources

import (
	"errors"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = domain.NewNotFoundError("resource not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewValidationError(domain.ReasonInvalidInput, "invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("resources.service: internal error")
)
