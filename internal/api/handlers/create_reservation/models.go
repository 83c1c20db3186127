package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ResourceID string `json:"resourceId"`
	Date       string `json:"date"`      // "2025-01-10"
	StartTime  string `json:"startTime"` // "18:00"
	EndTime    string `json:"endTime"`   // "19:00"
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Guests     int    `json:"guests,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID               string `json:"id"`
	ConfirmationCode string `json:"confirmationCode"`
	ResourceID       string `json:"resourceId"`
	ResourceName     string `json:"resourceName"`
	Date             string `json:"date"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	Status           string `json:"status"`
	TotalPrice       int64  `json:"totalPrice"`
	Currency         string `json:"currency"`
	UserName         string `json:"userName"`
	UserEmail        string `json:"userEmail"`
	UserPhone        string `json:"userPhone"`
	Guests           int    `json:"guests"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Некорректная дата - invalid-input, некорректное время - invalid-time
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidInput,
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", r.Date))
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidTime,
			fmt.Sprintf("invalid startTime %q, expected HH:MM", r.StartTime))
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, domain.NewValidationError(domain.ReasonInvalidTime,
			fmt.Sprintf("invalid endTime %q, expected HH:MM", r.EndTime))
	}

	return &createReservation.Request{
		ResourceID: r.ResourceID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Customer: domain.Customer{
			Name:  r.Name,
			Email: r.Email,
			Phone: r.Phone,
		},
		Guests: r.Guests,
		Notes:  r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:               resp.ID,
		ConfirmationCode: resp.ConfirmationCode,
		ResourceID:       resp.ResourceID,
		ResourceName:     resp.ResourceName,
		Date:             resp.Date.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		EndTime:          resp.EndTime.String(),
		Status:           resp.Status,
		TotalPrice:       resp.TotalPrice,
		Currency:         domain.Currency,
		UserName:         resp.Customer.Name,
		UserEmail:        resp.Customer.Email,
		UserPhone:        resp.Customer.Phone,
		Guests:           resp.Guests,
		Notes:            resp.Notes,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
}
