package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	// StatusPending is a legacy value: never produced by the booking path and never blocks a slot
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// IsValid returns true for a known status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Customer contact payload, opaque to the engine
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Normalize trims fields and lower-cases the email
func (c Customer) Normalize() Customer {
	return Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: strings.TrimSpace(c.Phone),
	}
}

// Reservation represents a committed booking of a resource
type Reservation struct {
	ID               string
	ConfirmationCode string
	ResourceID       string
	Date             time.Time // calendar day in the deployment time zone
	StartTime        types.TimeString
	EndTime          types.TimeString
	Status           ReservationStatus
	TotalPrice       int64

	Customer Customer
	Guests   int
	Notes    string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Interval the reserved [StartTime, EndTime) range
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// BlocksSlot only confirmed reservations take part in conflict checks
func (r *Reservation) BlocksSlot() bool {
	return r.Status == StatusConfirmed
}

// StartsAt absolute start instant
func (r *Reservation) StartsAt() time.Time {
	return r.StartTime.OnDate(r.Date)
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	ResourceID       *string
	Email            *string
	From             *time.Time // inclusive
	To               *time.Time // inclusive
	IncludeCancelled bool
}
