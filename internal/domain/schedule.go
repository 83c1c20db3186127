package domain

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// BlockedSlot recurring weekly blackout: every <Weekday> at <Time>
type BlockedSlot struct {
	Weekday time.Weekday
	Time    types.TimeString
}

// BlockedSlots blackout set indexed by weekday, then by time of day
type BlockedSlots map[time.Weekday]map[types.TimeString]struct{}

// NewBlockedSlots builds the index from a flat list
func NewBlockedSlots(slots ...BlockedSlot) BlockedSlots {
	b := make(BlockedSlots, len(slots))
	for _, s := range slots {
		b.Add(s.Weekday, s.Time)
	}
	return b
}

// Add marks (weekday, t) as blocked
func (b BlockedSlots) Add(weekday time.Weekday, t types.TimeString) {
	day, ok := b[weekday]
	if !ok {
		day = make(map[types.TimeString]struct{})
		b[weekday] = day
	}
	day[t] = struct{}{}
}

// Contains O(1) lookup
func (b BlockedSlots) Contains(weekday time.Weekday, t types.TimeString) bool {
	if b == nil {
		return false
	}
	_, ok := b[weekday][t]
	return ok
}

// Len number of blocked (weekday, time) pairs
func (b BlockedSlots) Len() int {
	n := 0
	for _, day := range b {
		n += len(day)
	}
	return n
}

// List flat list ordered by weekday, then time
func (b BlockedSlots) List() []BlockedSlot {
	result := make([]BlockedSlot, 0, b.Len())
	for weekday, day := range b {
		for t := range day {
			result = append(result, BlockedSlot{Weekday: weekday, Time: t})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Weekday != result[j].Weekday {
			return result[i].Weekday < result[j].Weekday
		}
		return result[i].Time.IsBefore(result[j].Time)
	})
	return result
}

// Schedule per-resource operating configuration
type Schedule struct {
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int
	AvailableDays       []time.Weekday // 0=Sunday ... 6=Saturday
	Blocked             BlockedSlots
}

// DefaultSchedule 08:00-23:00, hourly slots, Monday to Saturday
func DefaultSchedule() Schedule {
	days := make([]time.Weekday, len(DefaultAvailableDays))
	copy(days, DefaultAvailableDays)

	return Schedule{
		OpenTime:            DefaultOpenTime,
		CloseTime:           DefaultCloseTime,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		AvailableDays:       days,
		Blocked:             BlockedSlots{},
	}
}

// Validate checks schedule invariants
func (s Schedule) Validate() error {
	if err := s.OpenTime.Validate(); err != nil {
		return NewValidationError(ReasonInvalidSchedule, fmt.Sprintf("invalid open time: %v", err))
	}
	if err := s.CloseTime.Validate(); err != nil {
		return NewValidationError(ReasonInvalidSchedule, fmt.Sprintf("invalid close time: %v", err))
	}
	if !s.OpenTime.IsBefore(s.CloseTime) {
		return NewValidationError(ReasonInvalidSchedule, "open time must be before close time")
	}
	if s.SlotDurationMinutes < MinSlotDurationMinutes || s.SlotDurationMinutes > MaxSlotDurationMinutes {
		return NewValidationError(ReasonInvalidSchedule,
			fmt.Sprintf("slot duration must be between %d and %d minutes", MinSlotDurationMinutes, MaxSlotDurationMinutes))
	}
	if len(s.AvailableDays) == 0 {
		return NewValidationError(ReasonInvalidSchedule, "at least one available day is required")
	}
	for _, d := range s.AvailableDays {
		if d < time.Sunday || d > time.Saturday {
			return NewValidationError(ReasonInvalidSchedule, fmt.Sprintf("invalid weekday %d", d))
		}
	}
	for weekday, day := range s.Blocked {
		if weekday < time.Sunday || weekday > time.Saturday {
			return NewValidationError(ReasonInvalidSchedule, fmt.Sprintf("invalid blocked weekday %d", weekday))
		}
		for t := range day {
			if err := t.Validate(); err != nil {
				return NewValidationError(ReasonInvalidSchedule, fmt.Sprintf("invalid blocked time: %v", err))
			}
		}
	}
	return nil
}

// IsAvailableDay weekday belongs to AvailableDays
func (s Schedule) IsAvailableDay(weekday time.Weekday) bool {
	for _, d := range s.AvailableDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// IsBookableInstant true iff the weekday is available, open <= t < close
// and (weekday, t) is not blocked. Total for well-formed input.
func (s Schedule) IsBookableInstant(weekday time.Weekday, t types.TimeString) bool {
	if !s.IsAvailableDay(weekday) {
		return false
	}
	m := t.Minutes()
	if m < 0 || m < s.OpenTime.Minutes() || m >= s.CloseTime.Minutes() {
		return false
	}
	return !s.Blocked.Contains(weekday, t)
}

// CheckBookableInstant IsBookableInstant for raw input; malformed input is a validation error
func (s Schedule) CheckBookableInstant(weekday int, t string) (bool, error) {
	if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
		return false, NewValidationError(ReasonInvalidInput, fmt.Sprintf("invalid weekday %d", weekday))
	}
	ts, err := types.NewTimeStringFromString(t)
	if err != nil {
		return false, NewValidationError(ReasonInvalidTime, err.Error())
	}
	return s.IsBookableInstant(time.Weekday(weekday), ts), nil
}

// ParseBlockedSlot разбирает сырой блок и проверяет его по часам работы s
// (без учёта уже заблокированных слотов). Блок вне часов работы никогда не сработал бы.
func (s Schedule) ParseBlockedSlot(weekday int, t string) (BlockedSlot, error) {
	hours := s
	hours.Blocked = nil

	ok, err := hours.CheckBookableInstant(weekday, t)
	if err != nil {
		return BlockedSlot{}, err
	}
	if !ok {
		return BlockedSlot{}, NewValidationError(ReasonInvalidSchedule,
			fmt.Sprintf("blocked slot %s %s is outside opening hours", time.Weekday(weekday), t))
	}
	return BlockedSlot{Weekday: time.Weekday(weekday), Time: types.TimeString(t)}, nil
}

// NormalizeDays сортирует дни недели и убирает повторы
func NormalizeDays(days []time.Weekday) []time.Weekday {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

// IsBookableInterval start itself and every grid slot open+k*d that [start, end)
// touches are bookable, and the interval ends no later than closing time.
// A start off the grid is checked against the slot it falls into.
func (s Schedule) IsBookableInterval(weekday time.Weekday, start, end types.TimeString) bool {
	startMin, endMin := start.Minutes(), end.Minutes()
	if startMin < 0 || endMin < 0 || endMin <= startMin {
		return false
	}
	if endMin > s.CloseTime.Minutes() || s.SlotDurationMinutes <= 0 {
		return false
	}
	if !s.IsBookableInstant(weekday, start) {
		return false
	}

	// граница сетки, в слот которой попадает start (start >= open уже проверено)
	openMin, d := s.OpenTime.Minutes(), s.SlotDurationMinutes
	first := openMin + ((startMin-openMin)/d)*d

	for m := first; m < endMin; m += d {
		t, err := types.FromMinutes(m)
		if err != nil || !s.IsBookableInstant(weekday, t) {
			return false
		}
	}
	return true
}

// SlotStarts start times open, open+d, ... while start+d <= close; trailing partial slots are dropped
func (s Schedule) SlotStarts() []types.TimeString {
	openMin, closeMin := s.OpenTime.Minutes(), s.CloseTime.Minutes()
	if openMin < 0 || closeMin < 0 || s.SlotDurationMinutes <= 0 {
		return nil
	}

	starts := make([]types.TimeString, 0, (closeMin-openMin)/s.SlotDurationMinutes)
	for m := openMin; m+s.SlotDurationMinutes <= closeMin; m += s.SlotDurationMinutes {
		t, err := types.FromMinutes(m)
		if err != nil {
			break
		}
		starts = append(starts, t)
	}
	return starts
}
