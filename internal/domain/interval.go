package domain

import (
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Interval half-open time range [Start, End) within one calendar day
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate checks both bounds are well-formed and Start < End
func (i Interval) Validate() error {
	if err := i.Start.Validate(); err != nil {
		return NewValidationError(ReasonInvalidTime, "invalid start time: "+err.Error())
	}
	if err := i.End.Validate(); err != nil {
		return NewValidationError(ReasonInvalidTime, "invalid end time: "+err.Error())
	}
	if !i.Start.IsBefore(i.End) {
		return NewValidationError(ReasonInvertedInterval, "end time must be after start time")
	}
	return nil
}

// DurationMinutes length of the interval, zero for inverted intervals
func (i Interval) DurationMinutes() int {
	d := i.End.Minutes() - i.Start.Minutes()
	if d < 0 {
		return 0
	}
	return d
}

// Overlaps reports whether [a,b) and [c,d) share an instant: a < d && c < b.
// Touching intervals (b == c) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

// Overlaps symmetric half-open overlap test
func Overlaps(a, b Interval) bool {
	return a.Start.Minutes() < b.End.Minutes() && b.Start.Minutes() < a.End.Minutes()
}

// FirstConflict returns the first reservation that blocks the candidate.
// Caller passes reservations of the same resource and date; non-blocking ones are skipped.
func FirstConflict(candidate Interval, reservations []*Reservation) *Reservation {
	for _, r := range reservations {
		if r == nil || !r.BlocksSlot() {
			continue
		}
		if Overlaps(candidate, r.Interval()) {
			return r
		}
	}
	return nil
}

// HasConflict true if any reservation blocks the candidate
func HasConflict(candidate Interval, reservations []*Reservation) bool {
	return FirstConflict(candidate, reservations) != nil
}
