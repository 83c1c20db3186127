package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ResourceID string
	Date       time.Time        // календарная дата, время суток игнорируется
	StartTime  types.TimeString // "HH:MM"
	EndTime    types.TimeString // "HH:MM", исключительно
	Customer   domain.Customer
	Guests     int // 0 означает значение по умолчанию
	Notes      string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID               string
	ConfirmationCode string
	ResourceID       string
	ResourceName     string
	Date             time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	Status           string
	TotalPrice       int64
	Customer         domain.Customer
	Guests           int
	Notes            string
	CreatedAt        time.Time
}
