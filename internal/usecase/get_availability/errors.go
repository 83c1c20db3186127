package get_availability

import (
	"errors"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = domain.NewNotFoundError("resource not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
