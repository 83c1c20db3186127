package get_availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ResourceID) == "" {
		return domain.NewValidationError(domain.ReasonInvalidInput, "resourceId is required")
	}
	return nil
}

// resolveRange подставляет значения по умолчанию и проверяет окно [from, to]
func resolveRange(req *Request, today time.Time, horizonDays, maxRangeDays int) (time.Time, time.Time, error) {
	loc := today.Location()

	from := today
	if req.From != nil {
		from = inLocation(*req.From, loc)
	}

	to := from.AddDate(0, 0, horizonDays-1)
	if req.To != nil {
		to = inLocation(*req.To, loc)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.NewValidationError(domain.ReasonInvertedRange,
			fmt.Sprintf("to (%s) is before from (%s)", to.Format(domain.DateFormat), from.Format(domain.DateFormat)))
	}

	if maxRangeDays > 0 && to.After(from.AddDate(0, 0, maxRangeDays-1)) {
		return time.Time{}, time.Time{}, domain.NewValidationError(domain.ReasonRangeTooLong,
			fmt.Sprintf("range must not exceed %d days", maxRangeDays))
	}

	return from, to, nil
}

// inLocation переносит календарную дату в часовой пояс площадки
func inLocation(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
