package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

func weekdaysSchedule() Schedule {
	return Schedule{
		OpenTime:            "08:00",
		CloseTime:           "23:00",
		SlotDurationMinutes: 60,
		AvailableDays:       []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Blocked:             NewBlockedSlots(BlockedSlot{Weekday: time.Tuesday, Time: "14:00"}),
	}
}

func TestSchedule_IsBookableInstant(t *testing.T) {
	s := weekdaysSchedule()

	tests := []struct {
		name    string
		weekday time.Weekday
		at      types.TimeString
		want    bool
	}{
		{name: "opening time", weekday: time.Monday, at: "08:00", want: true},
		{name: "before opening", weekday: time.Monday, at: "07:59", want: false},
		{name: "last start", weekday: time.Monday, at: "22:00", want: true},
		{name: "closing time is exclusive", weekday: time.Monday, at: "23:00", want: false},
		{name: "blocked tuesday", weekday: time.Tuesday, at: "14:00", want: false},
		{name: "tuesday other hour", weekday: time.Tuesday, at: "15:00", want: true},
		{name: "blocked only on tuesday", weekday: time.Wednesday, at: "14:00", want: true},
		{name: "saturday", weekday: time.Saturday, at: "10:00", want: false},
		{name: "sunday", weekday: time.Sunday, at: "10:00", want: false},
		{name: "malformed time", weekday: time.Monday, at: "8:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsBookableInstant(tt.weekday, tt.at))
		})
	}
}

func TestSchedule_CheckBookableInstant(t *testing.T) {
	s := weekdaysSchedule()

	ok, err := s.CheckBookableInstant(1, "09:00")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.CheckBookableInstant(1, "9am")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CheckBookableInstant(7, "09:00")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSchedule_IsBookableInterval(t *testing.T) {
	s := weekdaysSchedule()

	assert.True(t, s.IsBookableInterval(time.Monday, "18:00", "20:00"))
	assert.True(t, s.IsBookableInterval(time.Monday, "22:00", "23:00"))
	assert.False(t, s.IsBookableInterval(time.Monday, "22:30", "23:30"), "ends after closing")
	assert.False(t, s.IsBookableInterval(time.Tuesday, "13:00", "15:00"), "spans blocked 14:00")
	assert.True(t, s.IsBookableInterval(time.Tuesday, "13:00", "14:00"), "touches blocked slot")
	assert.False(t, s.IsBookableInterval(time.Sunday, "10:00", "11:00"))
	assert.False(t, s.IsBookableInterval(time.Monday, "11:00", "10:00"))

	// старт вне сетки слотов
	assert.True(t, s.IsBookableInterval(time.Monday, "13:30", "14:30"))
	assert.True(t, s.IsBookableInterval(time.Tuesday, "12:30", "13:30"))
	assert.False(t, s.IsBookableInterval(time.Tuesday, "13:30", "14:30"), "covers blocked 14:00")
	assert.False(t, s.IsBookableInterval(time.Tuesday, "13:59", "14:59"), "covers blocked 14:00")
	assert.False(t, s.IsBookableInterval(time.Tuesday, "14:30", "15:30"), "starts inside blocked 14:00 slot")
	assert.True(t, s.IsBookableInterval(time.Tuesday, "15:30", "16:30"))
	assert.False(t, s.IsBookableInterval(time.Monday, "07:30", "08:30"), "starts before opening")
}

func TestSchedule_ParseBlockedSlot(t *testing.T) {
	s := weekdaysSchedule()

	slot, err := s.ParseBlockedSlot(2, "14:00")
	require.NoError(t, err, "already blocked instant is still inside opening hours")
	assert.Equal(t, BlockedSlot{Weekday: time.Tuesday, Time: "14:00"}, slot)

	tests := []struct {
		name   string
		day    int
		at     string
		reason string
	}{
		{name: "closed weekday", day: 6, at: "10:00", reason: ReasonInvalidSchedule},
		{name: "after closing", day: 1, at: "23:00", reason: ReasonInvalidSchedule},
		{name: "before opening", day: 1, at: "07:00", reason: ReasonInvalidSchedule},
		{name: "malformed time", day: 1, at: "9am", reason: ReasonInvalidTime},
		{name: "weekday out of range", day: 7, at: "10:00", reason: ReasonInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ParseBlockedSlot(tt.day, tt.at)
			assert.ErrorIs(t, err, NewValidationError(tt.reason, ""))
		})
	}
}

func TestNormalizeDays(t *testing.T) {
	in := []time.Weekday{time.Monday, time.Monday, time.Friday, time.Wednesday, time.Sunday}

	assert.Equal(t, []time.Weekday{time.Sunday, time.Monday, time.Wednesday, time.Friday}, NormalizeDays(in))
	assert.Equal(t, time.Monday, in[0], "input is not modified")
	assert.Empty(t, NormalizeDays(nil))
}

func TestSchedule_SlotStarts(t *testing.T) {
	s := Schedule{OpenTime: "08:00", CloseTime: "10:30", SlotDurationMinutes: 60}

	assert.Equal(t, []types.TimeString{"08:00", "09:00"}, s.SlotStarts(), "trailing partial slot is dropped")
}

func TestSchedule_Validate(t *testing.T) {
	valid := DefaultSchedule()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(s *Schedule)
	}{
		{name: "open after close", mutate: func(s *Schedule) { s.OpenTime, s.CloseTime = "20:00", "08:00" }},
		{name: "equal open and close", mutate: func(s *Schedule) { s.CloseTime = s.OpenTime }},
		{name: "slot too short", mutate: func(s *Schedule) { s.SlotDurationMinutes = 10 }},
		{name: "slot too long", mutate: func(s *Schedule) { s.SlotDurationMinutes = 300 }},
		{name: "no days", mutate: func(s *Schedule) { s.AvailableDays = nil }},
		{name: "bad weekday", mutate: func(s *Schedule) { s.AvailableDays = []time.Weekday{9} }},
		{name: "bad open time", mutate: func(s *Schedule) { s.OpenTime = "8" }},
		{name: "bad blocked time", mutate: func(s *Schedule) { s.Blocked = NewBlockedSlots(BlockedSlot{Weekday: 1, Time: "xx:yy"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSchedule()
			tt.mutate(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, NewValidationError(ReasonInvalidSchedule, ""))
		})
	}
}

func TestBlockedSlots_List(t *testing.T) {
	b := NewBlockedSlots(
		BlockedSlot{Weekday: time.Friday, Time: "10:00"},
		BlockedSlot{Weekday: time.Tuesday, Time: "14:00"},
		BlockedSlot{Weekday: time.Tuesday, Time: "09:00"},
		BlockedSlot{Weekday: time.Tuesday, Time: "09:00"},
	)

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []BlockedSlot{
		{Weekday: time.Tuesday, Time: "09:00"},
		{Weekday: time.Tuesday, Time: "14:00"},
		{Weekday: time.Friday, Time: "10:00"},
	}, b.List())
}
