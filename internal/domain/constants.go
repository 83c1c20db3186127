package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Default schedule applied when a resource does not configure one
const (
	DefaultOpenTime            types.TimeString = "08:00"
	DefaultCloseTime           types.TimeString = "23:00"
	DefaultSlotDurationMinutes                  = 60
)

// DefaultAvailableDays Monday through Saturday
var DefaultAvailableDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240
	MinHourlyRate          = 0
	MaxHourlyRate          = 100000
	MinGuests              = 1
	MaxGuests              = 100
	DefaultGuests          = 1
	MaxNotesLength         = 500
	MaxNameLength          = 100
)

// Availability window
const (
	DefaultHorizonDays  = 14
	DefaultMaxRangeDays = 62
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Currency used in notifications and exports
const Currency = "UYU"
