package export_reservations

import (
	"context"
	"io"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/report"
)

type Exporter interface {
	Export(ctx context.Context, req *report.Request, w io.Writer) (int, error)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
