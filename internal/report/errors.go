package report

import (
	"errors"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = domain.NewNotFoundError("resource not found")

	// ErrInvalidRange возвращается, когда конец периода раньше начала
	ErrInvalidRange = domain.NewValidationError(domain.ReasonInvertedRange, "to must not be before from")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("report: internal error")
)
