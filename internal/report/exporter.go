// Package report выгружает бронирования площадки в XLSX.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/resource"
)

const sheetName = "Reservas"

var columns = []string{
	"Código", "Fecha", "Inicio", "Fin", "Estado", "Cliente", "Email", "Teléfono",
	"Personas", "Total", "Moneda", "Notas", "Creada",
}

// Request параметры выгрузки; период включительный, обе границы опциональны
type Request struct {
	ResourceID       string
	From             *time.Time
	To               *time.Time
	IncludeCancelled bool
}

// Exporter формирует книгу Excel с бронированиями
type Exporter struct {
	resourceRepo    ResourceRepository
	reservationRepo ReservationRepository
	logger          Logger
}

// NewExporter создает новый экземпляр экспортёра
func NewExporter(resourceRepo ResourceRepository, reservationRepo ReservationRepository, logger Logger) *Exporter {
	return &Exporter{
		resourceRepo:    resourceRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// FileName имя файла для Content-Disposition
func FileName(resourceID string, now time.Time) string {
	return fmt.Sprintf("reservas-%s-%s.xlsx", resourceID, now.Format(domain.DateFormat))
}

// Export пишет XLSX с одной строкой на бронирование в w
func (e *Exporter) Export(ctx context.Context, req *Request, w io.Writer) (int, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return 0, ErrInvalidRange
	}

	// 1. Ресурс существует
	resource, err := e.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			e.logger.Warn("Export: resource id=%s not found", req.ResourceID)
			return 0, ErrResourceNotFound
		}
		e.logger.Error("Export: failed to get resource id=%s: %v", req.ResourceID, err)
		return 0, fmt.Errorf("%w: Export - get resource: %v", ErrInternal, err)
	}

	// 2. Бронирования за период
	resourceID := resource.ID
	reservations, err := e.reservationRepo.GetByFilter(ctx, domain.ReservationsFilter{
		ResourceID:       &resourceID,
		From:             req.From,
		To:               req.To,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		e.logger.Error("Export: failed to get reservations for resource id=%s: %v", req.ResourceID, err)
		return 0, fmt.Errorf("%w: Export - get reservations: %v", ErrInternal, err)
	}

	// 3. Книга
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeSheet(f, reservations); err != nil {
		return 0, fmt.Errorf("%w: Export - write sheet: %v", ErrInternal, err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   resource.Name,
		Creator: "SMC-CourtBookingService",
	}); err != nil {
		return 0, fmt.Errorf("%w: Export - doc props: %v", ErrInternal, err)
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("%w: Export - write: %v", ErrInternal, err)
	}

	e.logger.Info("Export: exported %d reservations for resource id=%s", len(reservations), req.ResourceID)
	return len(reservations), nil
}

func writeSheet(f *excelize.File, reservations []*domain.Reservation) error {
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = f.SetCellStyle(sheetName, "A1", endCell, style)
	}

	for i, r := range reservations {
		row := []interface{}{
			r.ConfirmationCode,
			r.Date.Format(domain.DateFormat),
			r.StartTime.String(),
			r.EndTime.String(),
			string(r.Status),
			r.Customer.Name,
			r.Customer.Email,
			r.Customer.Phone,
			r.Guests,
			r.TotalPrice,
			domain.Currency,
			r.Notes,
			r.CreatedAt.Format(time.RFC3339),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
