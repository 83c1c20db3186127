package get_availability

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса свободных слотов
// Пустые From/To заменяются на сегодня и сегодня + горизонт
type Request struct {
	ResourceID string
	From       *time.Time
	To         *time.Time
}

// Response модель ответа со списком свободных слотов
type Response struct {
	ResourceID string
	From       time.Time
	To         time.Time
	Slots      []Slot // по дате, затем по времени начала
}

// Slot свободный слот
type Slot struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Options параметры окна доступности
type Options struct {
	Location     *time.Location
	HorizonDays  int
	MaxRangeDays int
}
