package notifier

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Каналы доставки
const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
	ChannelEmail    = "email"
)

// Notification подтверждение бронирования для клиента
type Notification struct {
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	ResourceName     string
	Date             time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	ConfirmationCode string
	TotalPrice       int64
}
