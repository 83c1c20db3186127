package get_availability

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

func TestCandidates_StrictlyAfterNow(t *testing.T) {
	res := testResource()
	date := day(2025, 1, 10) // пятница
	now := time.Date(2025, 1, 10, 18, 0, 0, 0, montevideo)

	slots := slices.Collect(Candidates(res, date, date, now))

	// старт ровно в now не предлагается
	assert.Len(t, slots, 4)
	assert.Equal(t, "19:00", slots[0].Interval.Start.String())
}

func TestCandidates_DropsTrailingPartialSlot(t *testing.T) {
	res := testResource()
	res.Schedule.OpenTime = "08:00"
	res.Schedule.CloseTime = "10:30"
	res.Schedule.SlotDurationMinutes = 60
	date := day(2025, 1, 10)

	slots := slices.Collect(Candidates(res, date, date, date.AddDate(0, 0, -1)))

	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.Interval.Start.String()
	}
	assert.Equal(t, []string{"08:00", "09:00"}, starts)
}

func TestCandidates_ClosedDayAndUnavailable(t *testing.T) {
	res := testResource()
	sunday := day(2025, 1, 12)
	past := sunday.AddDate(0, 0, -7)

	assert.Empty(t, slices.Collect(Candidates(res, sunday, sunday, past)))

	res.Available = false
	monday := day(2025, 1, 13)
	assert.Empty(t, slices.Collect(Candidates(res, monday, monday, past)))
}

func TestCandidates_LazyAndRestartable(t *testing.T) {
	res := testResource()
	from, to := day(2025, 1, 6), day(2025, 3, 1)
	seq := Candidates(res, from, to, from.AddDate(0, 0, -1))

	var first []domain.Slot
	for s := range seq {
		first = append(first, s)
		if len(first) == 3 {
			break
		}
	}
	assert.Len(t, first, 3)

	var again []domain.Slot
	for s := range seq {
		again = append(again, s)
		if len(again) == 3 {
			break
		}
	}
	assert.Equal(t, first, again)
}

func TestFree_TouchingReservationDoesNotBlock(t *testing.T) {
	res := testResource()
	date := day(2025, 1, 10)
	reservations := []*domain.Reservation{
		{Date: date, StartTime: "09:00", EndTime: "10:00", Status: domain.StatusConfirmed},
	}

	slots := slices.Collect(Free(Candidates(res, date, date, date.AddDate(0, 0, -1)), reservations))

	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Interval.Start.String())
	}
	assert.Contains(t, starts, "08:00")
	assert.NotContains(t, starts, "09:00")
	assert.Contains(t, starts, "10:00")
}
