package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthsES   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// FormatDate дата в виде "viernes, 10 de enero de 2025"
func FormatDate(date time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d",
		weekdaysES[date.Weekday()], date.Day(), monthsES[date.Month()-1], date.Year())
}

// TextMessage текст подтверждения для WhatsApp и SMS
func TextMessage(n Notification) string {
	var b strings.Builder
	b.WriteString("¡Reserva confirmada! ⚽\n\n")
	fmt.Fprintf(&b, "📅 *%s*\n", FormatDate(n.Date))
	fmt.Fprintf(&b, "⏰ %s - %s\n", n.StartTime, n.EndTime)
	fmt.Fprintf(&b, "🏟️ %s\n", n.ResourceName)
	fmt.Fprintf(&b, "💰 $%d %s\n\n", n.TotalPrice, domain.Currency)
	fmt.Fprintf(&b, "🔑 Código: *%s*\n\n", n.ConfirmationCode)
	b.WriteString("¡Nos vemos pronto! 🙌")
	return b.String()
}

// EmailSubject тема письма
func EmailSubject(n Notification) string {
	return fmt.Sprintf("Reserva confirmada %s", n.ConfirmationCode)
}

// EmailHTML html-версия письма
func EmailHTML(n Notification) string {
	return fmt.Sprintf(`<h2>¡Reserva confirmada!</h2>
<p>Hola %s,</p>
<ul>
<li><strong>Fecha:</strong> %s</li>
<li><strong>Horario:</strong> %s - %s</li>
<li><strong>Cancha:</strong> %s</li>
<li><strong>Total:</strong> $%d %s</li>
</ul>
<p>Código de confirmación: <strong>%s</strong></p>`,
		html.EscapeString(n.CustomerName),
		FormatDate(n.Date),
		n.StartTime, n.EndTime,
		html.EscapeString(n.ResourceName),
		n.TotalPrice, domain.Currency,
		html.EscapeString(n.ConfirmationCode),
	)
}
