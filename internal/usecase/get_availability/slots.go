package get_availability

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Candidates лениво перечисляет слоты ресурса по датам from..to включительно
// Для каждой даты старты open, open+d, ... пока start+d <= close.
// Слот остаётся, если момент старта бронируемый по расписанию и строго позже now.
// Выключенный ресурс не даёт ни одного слота. Последовательность можно обходить повторно
func Candidates(resource *domain.Resource, from, to, now time.Time) iter.Seq[domain.Slot] {
	return func(yield func(domain.Slot) bool) {
		if !resource.IsBookable() {
			return
		}

		schedule := resource.Schedule
		starts := schedule.SlotStarts()
		if len(starts) == 0 {
			return
		}

		first, last := domain.DateOnly(from), domain.DateOnly(to)
		for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
			weekday := date.Weekday()
			if !schedule.IsAvailableDay(weekday) {
				continue
			}

			for _, start := range starts {
				if !schedule.IsBookableInstant(weekday, start) {
					continue
				}
				slot, err := domain.NewSlot(date, start, schedule.SlotDurationMinutes)
				if err != nil {
					continue
				}
				if !slot.StartsAt().After(now) {
					continue
				}
				if !yield(slot) {
					return
				}
			}
		}
	}
}

// Free отбрасывает слоты, пересекающиеся с подтверждёнными бронированиями той же даты
func Free(candidates iter.Seq[domain.Slot], reservations []*domain.Reservation) iter.Seq[domain.Slot] {
	byDate := make(map[string][]*domain.Reservation)
	for _, r := range reservations {
		if !r.BlocksSlot() {
			continue
		}
		key := r.Date.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], r)
	}

	return func(yield func(domain.Slot) bool) {
		for slot := range candidates {
			if domain.HasConflict(slot.Interval, byDate[slot.Date.Format(domain.DateFormat)]) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}
