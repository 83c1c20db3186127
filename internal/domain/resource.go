package domain

import (
	"fmt"
	"time"
)

// Sport kind of court
type Sport string

const (
	SportFootball5  Sport = "Fútbol 5"
	SportFootball7  Sport = "Fútbol 7"
	SportFootball11 Sport = "Fútbol 11"
	SportTennis     Sport = "Tenis"
	SportPaddle     Sport = "Paddle"
	SportBasketball Sport = "Básquet"
	SportVolleyball Sport = "Vóley"
)

// Sports all supported court kinds
var Sports = []Sport{
	SportFootball5,
	SportFootball7,
	SportFootball11,
	SportTennis,
	SportPaddle,
	SportBasketball,
	SportVolleyball,
}

// IsValid returns true for a known sport
func (s Sport) IsValid() bool {
	for _, known := range Sports {
		if s == known {
			return true
		}
	}
	return false
}

// Resource represents a bookable court
type Resource struct {
	ID          string
	Name        string
	Sport       Sport
	Capacity    int
	HourlyRate  int64 // integer currency units per hour
	Amenities   []string
	Description string
	Available   bool // kill switch: when false no slot is ever offered
	Schedule    Schedule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the resource accepts reservations at all
func (r *Resource) IsBookable() bool {
	return r != nil && r.Available
}

// Validate checks resource-level invariants
func (r *Resource) Validate() error {
	if r.ID == "" {
		return NewValidationError(ReasonInvalidInput, "resource id is required")
	}
	if r.Name == "" {
		return NewValidationError(ReasonInvalidInput, "resource name is required")
	}
	if r.Sport != "" && !r.Sport.IsValid() {
		return NewValidationError(ReasonInvalidInput, fmt.Sprintf("unknown sport %q", r.Sport))
	}
	if r.Capacity < 0 {
		return NewValidationError(ReasonInvalidInput, "capacity must not be negative")
	}
	if r.HourlyRate < MinHourlyRate || r.HourlyRate > MaxHourlyRate {
		return NewValidationError(ReasonInvalidInput,
			fmt.Sprintf("hourly rate must be between %d and %d", MinHourlyRate, MaxHourlyRate))
	}
	return r.Schedule.Validate()
}

// ResourcesFilter фильтр для выборки ресурсов
type ResourcesFilter struct {
	Sport     *Sport
	Available *bool
}
