package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Slot represents a candidate bookable interval on a concrete date
type Slot struct {
	Date     time.Time
	Interval Interval
}

// StartsAt absolute start of the slot in the date's location
func (s Slot) StartsAt() time.Time {
	return s.Interval.Start.OnDate(s.Date)
}

// NewSlot builds a slot of fixed duration starting at start
func NewSlot(date time.Time, start types.TimeString, durationMinutes int) (Slot, error) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Date: DateOnly(date), Interval: Interval{Start: start, End: end}}, nil
}

// DateOnly truncates a timestamp to midnight in its own location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
