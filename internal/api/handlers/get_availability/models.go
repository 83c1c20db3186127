package get_availability

import (
	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID string          `json:"resourceId"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot модель свободного слота
type AvailableSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Date:      slot.Date.Format(domain.DateFormat),
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		}
	}

	return &AvailabilityResponse{
		ResourceID: resp.ResourceID,
		From:       resp.From.Format(domain.DateFormat),
		To:         resp.To.Format(domain.DateFormat),
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(resourceID, fromStr, toStr string) (*getAvailability.Request, error) {
	from, err := handlers.ParseDate(fromStr)
	if err != nil {
		return nil, err
	}

	to, err := handlers.ParseDate(toStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		ResourceID: resourceID,
		From:       from,
		To:         to,
	}, nil
}
