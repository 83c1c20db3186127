package list_reservations

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Query params: resourceId, email, from, to, includeCancelled (все опциональны)
func ToServiceRequest(q url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	if v := strings.TrimSpace(q.Get("resourceId")); v != "" {
		req.ResourceID = ptr.Ptr(v)
	}
	if v := strings.TrimSpace(q.Get("email")); v != "" {
		req.Email = ptr.Ptr(v)
	}

	from, err := handlers.ParseDate(q.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("invalid from value: %w", err)
	}
	req.From = from

	to, err := handlers.ParseDate(q.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("invalid to value: %w", err)
	}
	req.To = to

	includeCancelled, err := handlers.ParseBool(q.Get("includeCancelled"))
	if err != nil {
		return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
	}
	req.IncludeCancelled = ptr.Deref(includeCancelled, false)

	return req, nil
}
