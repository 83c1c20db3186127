package models

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Request модели

// ListReservationsRequest запрос списка бронирований
// Все фильтры опциональны
type ListReservationsRequest struct {
	ResourceID       *string
	Email            *string
	From             *time.Time
	To               *time.Time
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() domain.ReservationsFilter {
	return domain.ReservationsFilter{
		ResourceID:       r.ResourceID,
		Email:            r.Email,
		From:             r.From,
		To:               r.To,
		IncludeCancelled: r.IncludeCancelled,
	}
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID               string  `json:"id"`
	ConfirmationCode string  `json:"confirmationCode"`
	ResourceID       string  `json:"resourceId"`
	Date             string  `json:"date"`      // "2025-01-10"
	StartTime        string  `json:"startTime"` // "18:00"
	EndTime          string  `json:"endTime"`   // "19:00"
	Status           string  `json:"status"`
	TotalPrice       int64   `json:"totalPrice"`
	Currency         string  `json:"currency"`
	UserName         string  `json:"userName"`
	UserEmail        string  `json:"userEmail"`
	UserPhone        string  `json:"userPhone"`
	Guests           int     `json:"guests"`
	Notes            string  `json:"notes,omitempty"`
	CancelledAt      *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:               r.ID,
		ConfirmationCode: r.ConfirmationCode,
		ResourceID:       r.ResourceID,
		Date:             r.Date.Format(domain.DateFormat),
		StartTime:        r.StartTime.String(),
		EndTime:          r.EndTime.String(),
		Status:           string(r.Status),
		TotalPrice:       r.TotalPrice,
		Currency:         domain.Currency,
		UserName:         r.Customer.Name,
		UserEmail:        r.Customer.Email,
		UserPhone:        r.Customer.Phone,
		Guests:           r.Guests,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}
