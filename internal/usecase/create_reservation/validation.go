package create_reservation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// validateRequest проверяет форму запроса; нормализует клиента и подставляет гостей по умолчанию
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ResourceID) == "" {
		return invalidInput("resourceId is required")
	}
	if req.Date.IsZero() {
		return invalidInput("date is required")
	}

	if err := req.StartTime.Validate(); err != nil {
		return domain.NewValidationError(domain.ReasonInvalidTime, fmt.Sprintf("invalid startTime: %v", err))
	}
	if err := req.EndTime.Validate(); err != nil {
		return domain.NewValidationError(domain.ReasonInvalidTime, fmt.Sprintf("invalid endTime: %v", err))
	}

	req.Customer = req.Customer.Normalize()
	if req.Customer.Name == "" {
		return invalidInput("customer name is required")
	}
	if utf8.RuneCountInString(req.Customer.Name) > domain.MaxNameLength {
		return invalidInput(fmt.Sprintf("customer name must not exceed %d characters", domain.MaxNameLength))
	}
	if req.Customer.Email == "" || !strings.Contains(req.Customer.Email, "@") {
		return invalidInput("a valid customer email is required")
	}
	if req.Customer.Phone == "" {
		return invalidInput("customer phone is required")
	}

	if req.Guests == 0 {
		req.Guests = domain.DefaultGuests
	}
	if req.Guests < domain.MinGuests || req.Guests > domain.MaxGuests {
		return invalidInput(fmt.Sprintf("guests must be between %d and %d", domain.MinGuests, domain.MaxGuests))
	}

	req.Notes = strings.TrimSpace(req.Notes)
	if utf8.RuneCountInString(req.Notes) > domain.MaxNotesLength {
		return invalidInput(fmt.Sprintf("notes must not exceed %d characters", domain.MaxNotesLength))
	}

	return nil
}

func invalidInput(msg string) error {
	return domain.NewValidationError(domain.ReasonInvalidInput, msg)
}
